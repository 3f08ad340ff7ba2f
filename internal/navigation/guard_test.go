package navigation

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/hrms-portal/internal/session"
)

func TestNavigation(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Navigation Guard Suite")
}

type recordingTitles struct {
	titles []string
}

func (r *recordingTitles) SetTitle(title string) {
	r.titles = append(r.titles, title)
}

var _ = ginkgo.Describe("Guard", func() {
	var (
		storage *session.MemoryStorage
		store   *session.Store
		titles  *recordingTitles
		guard   *Guard
		chain   *Chain
	)

	ginkgo.BeforeEach(func() {
		storage = session.NewMemoryStorage()
		store = session.NewStore(storage, nil)
		titles = &recordingTitles{}
		guard = NewGuard(nil, store, titles, nil)
		chain = NewChain()
	})

	loginAs := func(role session.Role) {
		err := store.Login("token-abc", "Alice", role, session.Identity{EmployeeID: "EMP001"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	}

	ginkgo.Describe("unauthenticated navigation", func() {
		ginkgo.It("should redirect a protected route to login exactly once", func() {
			decision := guard.Resolve(chain, "", "/employee/salary")
			gomega.Expect(decision.Action).To(gomega.Equal(ActionRedirect))
			gomega.Expect(decision.Target).To(gomega.Equal(LoginPath))
			gomega.Expect(chain.Redirects()).To(gomega.Equal(1))

			// following the redirect converges without another redirect
			decision = guard.Resolve(chain, "/employee/salary", LoginPath)
			gomega.Expect(decision.Action).To(gomega.Equal(ActionAllow))
			gomega.Expect(chain.Redirects()).To(gomega.Equal(0))
		})

		ginkgo.It("should allow public routes", func() {
			for _, path := range []string{LoginPath, AdminLoginPath, RegisterPath} {
				decision := guard.Resolve(NewChain(), "", path)
				gomega.Expect(decision.Action).To(gomega.Equal(ActionAllow), "path %s", path)
			}
		})

		ginkgo.It("should allow unknown paths as the not-found page", func() {
			decision := guard.Resolve(chain, "", "/no/such/page")
			gomega.Expect(decision.Action).To(gomega.Equal(ActionAllow))
			gomega.Expect(titles.titles).To(gomega.ContainElement("Page Not Found | HRMS"))
		})
	})

	ginkgo.Describe("role gating", func() {
		ginkgo.It("should send an employee hitting an admin route to the employee home", func() {
			loginAs(session.RoleEmployee)

			decision := guard.Resolve(chain, "", "/admin/employees")
			gomega.Expect(decision.Action).To(gomega.Equal(ActionRedirect))
			gomega.Expect(decision.Target).To(gomega.Equal(EmployeeHomePath))
			gomega.Expect(chain.Redirects()).To(gomega.Equal(1), "exactly one increment per attempt")
		})

		ginkgo.It("should send an admin hitting an employee route to the admin home", func() {
			loginAs(session.RoleAdmin)

			decision := guard.Resolve(chain, "", "/employee/leave")
			gomega.Expect(decision.Action).To(gomega.Equal(ActionRedirect))
			gomega.Expect(decision.Target).To(gomega.Equal(AdminHomePath))
		})

		ginkgo.It("should compare route roles case-insensitively", func() {
			err := store.Login("token-abc", "Root", session.Role("ADMIN"), session.Identity{Username: "root"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			decision := guard.Resolve(chain, "", "/admin/reports")
			gomega.Expect(decision.Action).To(gomega.Equal(ActionAllow))
		})

		ginkgo.It("should self-heal a token without a role", func() {
			// simulate corrupt storage: token survived, role did not
			gomega.Expect(storage.Set(session.KeyAuthToken, "stale-token")).To(gomega.Succeed())
			store = session.NewStore(storage, nil)
			guard = NewGuard(nil, store, titles, nil)

			decision := guard.Resolve(chain, "", "/admin/employees")
			gomega.Expect(decision.Action).To(gomega.Equal(ActionRedirect))
			gomega.Expect(decision.Target).To(gomega.Equal(LoginPath))
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("public entry routes while authenticated", func() {
		ginkgo.It("should bounce a logged-in employee from login pages to the employee home", func() {
			loginAs(session.RoleEmployee)

			for _, path := range []string{LoginPath, AdminLoginPath, RegisterPath} {
				decision := guard.Resolve(NewChain(), "", path)
				gomega.Expect(decision.Action).To(gomega.Equal(ActionRedirect), "path %s", path)
				gomega.Expect(decision.Target).To(gomega.Equal(EmployeeHomePath))
			}
		})

		ginkgo.It("should clear an unrecognized role and fall back to login", func() {
			err := store.Login("token-abc", "Bob", session.Role("contractor"), session.Identity{})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			decision := guard.Resolve(chain, "", LoginPath)
			gomega.Expect(decision.Action).To(gomega.Equal(ActionRedirect))
			gomega.Expect(decision.Target).To(gomega.Equal(LoginPath))
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("redirect loop safety valve", func() {
		ginkgo.It("should clear the session and reset once the ceiling is exceeded", func() {
			loginAs(session.RoleEmployee)

			// keep re-attempting a forbidden target without ever following
			// the redirect, the way a misbehaving view layer would
			var decision Decision
			attempts := 0
			for {
				decision = guard.Resolve(chain, "/somewhere", "/admin/employees")
				attempts++
				if decision.LoopDetected || attempts > 20 {
					break
				}
			}

			gomega.Expect(decision.LoopDetected).To(gomega.BeTrue())
			gomega.Expect(decision.Target).To(gomega.Equal(LoginPath))
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
			gomega.Expect(chain.Redirects()).To(gomega.Equal(0))
			gomega.Expect(attempts).To(gomega.Equal(DefaultMaxRedirects + 2))
		})

		ginkgo.It("should reset the counter at the start of a fresh chain", func() {
			loginAs(session.RoleEmployee)

			for i := 0; i < 3; i++ {
				guard.Resolve(chain, "/somewhere", "/admin/employees")
			}
			gomega.Expect(chain.Redirects()).To(gomega.Equal(3))

			// empty previous route marks a full reload
			guard.Resolve(chain, "", "/admin/employees")
			gomega.Expect(chain.Redirects()).To(gomega.Equal(1))
		})
	})

	ginkgo.Describe("bypass paths", func() {
		ginkgo.It("should let api and static requests through unconditionally", func() {
			decision := guard.Resolve(chain, "", "/api/employees")
			gomega.Expect(decision.Action).To(gomega.Equal(ActionAllow))

			decision = guard.Resolve(chain, "", "/static/logo.png")
			gomega.Expect(decision.Action).To(gomega.Equal(ActionAllow))
			gomega.Expect(titles.titles).To(gomega.BeEmpty(), "bypass paths are not page navigations")
		})
	})

	ginkgo.Describe("titles", func() {
		ginkgo.It("should set the declared title on allowed navigation", func() {
			loginAs(session.RoleAdmin)

			decision := guard.Resolve(chain, "", "/admin/reports")
			gomega.Expect(decision.Action).To(gomega.Equal(ActionAllow))
			gomega.Expect(titles.titles).To(gomega.ConsistOf("Reports | HRMS"))
		})

		ginkgo.It("should survive a panicking title sink", func() {
			panicking := TitleSetterFunc(func(string) { panic("no document") })
			guard = NewGuard(nil, store, panicking, nil)

			decision := guard.Resolve(chain, "", LoginPath)
			gomega.Expect(decision.Action).To(gomega.Equal(ActionAllow))
		})
	})

	ginkgo.Describe("SafeResolve", func() {
		ginkgo.It("should recover a broken resolution to the role home", func() {
			loginAs(session.RoleAdmin)

			// nil chain forces a panic inside Resolve
			decision := guard.SafeResolve(nil, "", AdminHomePath)
			gomega.Expect(decision.Action).To(gomega.Equal(ActionRedirect))
			gomega.Expect(decision.Target).To(gomega.Equal(AdminHomePath))
		})

		ginkgo.It("should recover to login when unauthenticated", func() {
			decision := guard.SafeResolve(nil, "", "/employee/salary")
			gomega.Expect(decision.Target).To(gomega.Equal(LoginPath))
		})
	})
})
