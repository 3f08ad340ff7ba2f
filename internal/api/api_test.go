package api

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/hrms-portal/internal"
	"github.com/frahmantamala/hrms-portal/internal/session"
)

func TestAPI(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Domain API Suite")
}

// mockDoer implements Doer with canned responses keyed by "METHOD path".
type mockDoer struct {
	responses map[string]string
	errors    map[string]error
	calls     []string
}

func newMockDoer() *mockDoer {
	return &mockDoer{
		responses: make(map[string]string),
		errors:    make(map[string]error),
	}
}

func (m *mockDoer) respond(method, path, body string) {
	m.responses[method+" "+path] = body
}

func (m *mockDoer) fail(method, path string, err error) {
	m.errors[method+" "+path] = err
}

func (m *mockDoer) do(method, path string, out any) error {
	key := method + " " + path
	m.calls = append(m.calls, key)
	if err, ok := m.errors[key]; ok {
		return err
	}
	if body, ok := m.responses[key]; ok && out != nil {
		return json.Unmarshal([]byte(body), out)
	}
	return nil
}

func (m *mockDoer) Get(_ context.Context, path string, out any) error {
	return m.do("GET", path, out)
}

func (m *mockDoer) Post(_ context.Context, path string, _, out any) error {
	return m.do("POST", path, out)
}

func (m *mockDoer) Put(_ context.Context, path string, _, out any) error {
	return m.do("PUT", path, out)
}

func (m *mockDoer) Delete(_ context.Context, path string, out any) error {
	return m.do("DELETE", path, out)
}

var _ = ginkgo.Describe("Auth module", func() {
	var (
		doer  *mockDoer
		store *session.Store
		auth  *Auth
	)

	ginkgo.BeforeEach(func() {
		doer = newMockDoer()
		store = session.NewStore(session.NewMemoryStorage(), nil)
		auth = NewAuth(doer, store, nil)
	})

	ginkgo.Describe("EmployeeLogin", func() {
		ginkgo.It("should establish a session from a complete login response", func() {
			doer.respond("POST", "/auth/login",
				`{"token":"tok-1","role":"employee","username":"EMP001",
				  "user":{"name":"Alice Zhang","empId":"EMP001","dept":"Engineering","pos":"Developer"}}`)

			sess, err := auth.EmployeeLogin(context.Background(), LoginDTO{Username: "EMP001", Password: "pw"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sess.UserName).To(gomega.Equal("Alice Zhang"))
			gomega.Expect(sess.EmployeeID).To(gomega.Equal("EMP001"))
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeTrue())
			gomega.Expect(store.RoleIs(session.RoleEmployee)).To(gomega.BeTrue())
		})

		ginkgo.It("should fall back to the detail endpoint when login omits the user", func() {
			doer.respond("POST", "/auth/login", `{"token":"tok-1","role":"employee","username":"EMP002"}`)
			doer.respond("GET", "/employees/byEmpId/EMP002",
				`{"name":"Bob Li","empId":"EMP002","department":"Sales","position":"Rep"}`)

			sess, err := auth.EmployeeLogin(context.Background(), LoginDTO{Username: "EMP002", Password: "pw"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sess.UserName).To(gomega.Equal("Bob Li"))
			gomega.Expect(sess.Identity.Department).To(gomega.Equal("Sales"))
			gomega.Expect(doer.calls).To(gomega.ContainElement("GET /employees/byEmpId/EMP002"))
		})

		ginkgo.It("should still log in when the fallback detail fetch fails", func() {
			doer.respond("POST", "/auth/login", `{"token":"tok-1","role":"employee","username":"EMP003"}`)
			doer.fail("GET", "/employees/byEmpId/EMP003", errors.New("boom"))

			sess, err := auth.EmployeeLogin(context.Background(), LoginDTO{Username: "EMP003", Password: "pw"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sess.UserName).To(gomega.Equal("EMP003"))
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeTrue())
		})

		ginkgo.It("should reject an admin account on the employee entry", func() {
			doer.respond("POST", "/auth/login", `{"token":"tok-1","role":"ADMIN","username":"root"}`)

			_, err := auth.EmployeeLogin(context.Background(), LoginDTO{Username: "root", Password: "pw"})
			gomega.Expect(internal.HasErrorCode(err, internal.ErrCodeWrongLoginPortal)).To(gomega.BeTrue())
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
		})

		ginkgo.It("should reject an incomplete login response", func() {
			doer.respond("POST", "/auth/login", `{"role":"employee","username":"EMP001"}`)

			_, err := auth.EmployeeLogin(context.Background(), LoginDTO{Username: "EMP001", Password: "pw"})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
		})

		ginkgo.It("should validate credentials before calling the backend", func() {
			_, err := auth.EmployeeLogin(context.Background(), LoginDTO{})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(doer.calls).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("AdminLogin", func() {
		ginkgo.It("should accept a case-insensitive admin role", func() {
			doer.respond("POST", "/auth/login",
				`{"token":"tok-9","role":"ADMIN","username":"root","user":{"name":"Root"}}`)

			sess, err := auth.AdminLogin(context.Background(), LoginDTO{Username: "root", Password: "pw"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sess.Role.Equals(session.RoleAdmin)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should clear the session even when remote logout fails", func() {
			doer.respond("POST", "/auth/login",
				`{"token":"tok-1","role":"employee","username":"EMP001","user":{"name":"Alice"}}`)
			_, err := auth.EmployeeLogin(context.Background(), LoginDTO{Username: "EMP001", Password: "pw"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			doer.fail("POST", "/auth/logout", errors.New("backend down"))
			auth.Logout(context.Background())
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
		})
	})
})

var _ = ginkgo.Describe("list normalization", func() {
	var doer *mockDoer

	ginkgo.BeforeEach(func() {
		doer = newMockDoer()
	})

	ginkgo.It("should decode a bare array response", func() {
		doer.respond("GET", "/employees", `[{"empId":"EMP001","name":"Alice"},{"empId":"EMP002","name":"Bob"}]`)

		page, err := NewEmployees(doer, nil).List(context.Background(), ListQuery{})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(page.Items).To(gomega.HaveLen(2))
		gomega.Expect(page.Total).To(gomega.Equal(int64(2)))
	})

	ginkgo.It("should decode a data/total envelope", func() {
		doer.respond("GET", "/salaries?page=2&pageSize=10",
			`{"data":[{"empId":"EMP001","month":"2026-08"}],"total":31}`)

		page, err := NewSalaries(doer, nil).List(context.Background(), ListQuery{Page: 2, PageSize: 10})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(page.Items).To(gomega.HaveLen(1))
		gomega.Expect(page.Total).To(gomega.Equal(int64(31)))
	})

	ginkgo.It("should treat an empty body as an empty page", func() {
		page, err := NewLeaves(doer, nil).List(context.Background(), ListQuery{})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(page.Items).To(gomega.BeEmpty())
		gomega.Expect(page.Total).To(gomega.BeZero())
	})
})
