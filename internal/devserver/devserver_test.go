package devserver_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/hrms-portal/internal"
	"github.com/frahmantamala/hrms-portal/internal/api"
	"github.com/frahmantamala/hrms-portal/internal/devserver"
	"github.com/frahmantamala/hrms-portal/internal/notify"
	"github.com/frahmantamala/hrms-portal/internal/session"
	"github.com/frahmantamala/hrms-portal/internal/transport"
)

func TestDevServer(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Dev Server Suite")
}

var _ = ginkgo.Describe("stub backend", func() {
	var (
		server *httptest.Server
		store  *session.Store
		client *transport.Client
		auth   *api.Auth
		ctx    context.Context
	)

	ginkgo.BeforeEach(func() {
		srv, err := devserver.New(devserver.Config{
			JWTSecret: "test-secret",
			TokenTTL:  time.Minute,
		}, nil)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		server = httptest.NewServer(srv.Handler())
		store = session.NewStore(session.NewMemoryStorage(), nil)
		client = transport.NewClient(transport.Config{
			BaseURL:              server.URL + "/api",
			MaxRequestsPerSecond: 1000,
			RetryBaseDelay:       time.Millisecond,
		}, store, notify.Discard{}, nil)
		auth = api.NewAuth(client, store, nil)
		ctx = context.Background()
	})

	ginkgo.AfterEach(func() {
		server.Close()
	})

	loginEmployee := func() {
		_, err := auth.EmployeeLogin(ctx, api.LoginDTO{Username: "EMP001", Password: "password123"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	}

	loginAdmin := func() {
		_, err := auth.AdminLogin(ctx, api.LoginDTO{Username: "root", Password: "admin123"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	}

	ginkgo.Describe("authentication", func() {
		ginkgo.It("should log an employee in with seeded credentials", func() {
			sess, err := auth.EmployeeLogin(ctx, api.LoginDTO{Username: "EMP001", Password: "password123"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sess.UserName).To(gomega.Equal("Alice Zhang"))
			gomega.Expect(store.RoleIs(session.RoleEmployee)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a wrong password", func() {
			_, err := auth.EmployeeLogin(ctx, api.LoginDTO{Username: "EMP001", Password: "nope"})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
		})

		ginkgo.It("should reject an admin account on the employee entry", func() {
			_, err := auth.EmployeeLogin(ctx, api.LoginDTO{Username: "root", Password: "admin123"})
			gomega.Expect(internal.HasErrorCode(err, internal.ErrCodeWrongLoginPortal)).To(gomega.BeTrue())
		})

		ginkgo.It("should register a new account and log it in", func() {
			err := auth.Register(ctx, api.RegisterDTO{Username: "EMP100", Password: "secret99", Name: "Carol New"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			sess, err := auth.EmployeeLogin(ctx, api.LoginDTO{Username: "EMP100", Password: "secret99"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sess.UserName).To(gomega.Equal("Carol New"))
		})

		ginkgo.It("should return a session expiry error for an unauthenticated call", func() {
			_, err := api.NewEmployees(client, nil).List(ctx, api.ListQuery{})
			gomega.Expect(internal.HasErrorCode(err, internal.ErrCodeSessionExpired)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("employee scope", func() {
		ginkgo.BeforeEach(loginEmployee)

		ginkgo.It("should list its own salary records", func() {
			page, err := api.NewEmployees(client, nil).MySalary(ctx, "EMP001")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(page.Items).To(gomega.HaveLen(1))
			gomega.Expect(page.Items[0].Month).To(gomega.Equal("2026-08"))
		})

		ginkgo.It("should be denied another employee's salary", func() {
			_, err := api.NewEmployees(client, nil).MySalary(ctx, "EMP002")
			gomega.Expect(internal.HasErrorCode(err, internal.ErrCodePermissionDenied)).To(gomega.BeTrue())
		})

		ginkgo.It("should be denied admin-only collections", func() {
			_, err := api.NewAdmins(client, nil).List(ctx, api.ListQuery{})
			gomega.Expect(internal.HasErrorCode(err, internal.ErrCodePermissionDenied)).To(gomega.BeTrue())
		})

		ginkgo.It("should submit and withdraw a leave application", func() {
			leaves := api.NewLeaves(client, nil)
			app, err := leaves.Submit(ctx, api.LeaveApplicationDTO{
				EmpID: "EMP001", Type: "sick", StartDate: "2026-09-20", EndDate: "2026-09-21",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(app.Status).To(gomega.Equal("pending"))

			gomega.Expect(leaves.WithdrawMine(ctx, app.ID)).To(gomega.Succeed())

			page, err := leaves.MyApplications(ctx, "EMP001")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			for _, remaining := range page.Items {
				gomega.Expect(remaining.ID).ToNot(gomega.Equal(app.ID))
			}
		})
	})

	ginkgo.Describe("admin scope", func() {
		ginkgo.BeforeEach(loginAdmin)

		ginkgo.It("should list and search employees", func() {
			employees := api.NewEmployees(client, nil)

			page, err := employees.List(ctx, api.ListQuery{})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(page.Total).To(gomega.BeNumerically(">=", 2))

			page, err = employees.List(ctx, api.ListQuery{Keyword: "alice"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(page.Items).To(gomega.HaveLen(1))
			gomega.Expect(page.Items[0].EmpID).To(gomega.Equal("EMP001"))
		})

		ginkgo.It("should review a pending leave application", func() {
			leaves := api.NewLeaves(client, nil)
			page, err := leaves.List(ctx, api.ListQuery{})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(page.Items).ToNot(gomega.BeEmpty())

			reviewed, err := leaves.Review(ctx, page.Items[0].ID, api.LeaveReviewDTO{Status: "approved", Comment: "enjoy"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(reviewed.Status).To(gomega.Equal("approved"))
			gomega.Expect(reviewed.Comment).To(gomega.Equal("enjoy"))
		})

		ginkgo.It("should manage the salary collection", func() {
			salaries := api.NewSalaries(client, nil)
			created, err := salaries.Create(ctx, api.SalaryDTO{EmpID: "EMP002", Month: "2026-09", Base: 7100, Bonus: 200, Deduction: 100})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.Net).To(gomega.Equal(7200.0))

			gomega.Expect(salaries.Delete(ctx, created.ID)).To(gomega.Succeed())
		})

		ginkgo.It("should publish and retrieve an announcement", func() {
			announcements := api.NewAnnouncements(client, nil)
			created, err := announcements.Create(ctx, api.AnnouncementDTO{Title: "Maintenance", Content: "Friday 22:00"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.Author).To(gomega.Equal("root"))

			fetched, err := announcements.Get(ctx, created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(fetched.Title).To(gomega.Equal("Maintenance"))
		})

		ginkgo.It("should serve dashboard stats and trends", func() {
			admins := api.NewAdmins(client, nil)
			stats, err := admins.DashboardStats(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stats.EmployeeCount).To(gomega.BeNumerically(">=", 2))
			gomega.Expect(stats.PendingLeaves).To(gomega.BeNumerically(">=", 1))

			trends, err := admins.MonthlyTrends(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(trends).To(gomega.HaveLen(3))
		})

		ginkgo.It("should refuse to delete the last admin", func() {
			admins := api.NewAdmins(client, nil)
			page, err := admins.List(ctx, api.ListQuery{})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(page.Items).To(gomega.HaveLen(1))

			err = admins.Delete(ctx, page.Items[0].ID)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should mark an employee resigned", func() {
			employees := api.NewEmployees(client, nil)
			gomega.Expect(employees.MarkResigned(ctx, "EMP002")).To(gomega.Succeed())

			emp, err := employees.GetByEmpID(ctx, "EMP002")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(emp.Status).To(gomega.Equal("resigned"))
		})
	})
})
