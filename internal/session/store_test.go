package session

import (
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestSession(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Session Store Suite")
}

// failingStorage wraps MemoryStorage and fails deletes on demand to exercise
// the best-effort clear path.
type failingStorage struct {
	*MemoryStorage
	failDelete bool
}

func (f *failingStorage) Delete(key string) error {
	if f.failDelete {
		return errors.New("storage unavailable")
	}
	return f.MemoryStorage.Delete(key)
}

var _ = ginkgo.Describe("Store", func() {
	var (
		storage *MemoryStorage
		store   *Store
	)

	ginkgo.BeforeEach(func() {
		storage = NewMemoryStorage()
		store = NewStore(storage, nil)
	})

	login := func() {
		err := store.Login("token-123", "Alice Zhang", RoleEmployee, Identity{
			EmployeeID: "EMP001",
			Name:       "Alice Zhang",
			Department: "Engineering",
			Position:   "Developer",
			Role:       RoleEmployee,
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	}

	ginkgo.Describe("Login", func() {
		ginkgo.It("should mark the session authenticated", func() {
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
			login()
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeTrue())
		})

		ginkgo.It("should persist every identity key", func() {
			login()

			for _, key := range []string{KeyAuthToken, KeyUserName, KeyUserRole, KeyUserID, KeyUserEmployeeID, KeyUserInfo} {
				value, err := storage.Get(key)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(value).ToNot(gomega.BeEmpty(), "key %s should be persisted", key)
			}
		})

		ginkgo.It("should reject an empty token", func() {
			err := store.Login("", "Alice", RoleEmployee, Identity{})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
		})

		ginkgo.It("should reject an empty role", func() {
			err := store.Login("token-123", "Alice", "", Identity{})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should clear memory and every persisted key", func() {
			login()
			store.Logout()

			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
			for _, key := range []string{KeyAuthToken, KeyUserName, KeyUserRole, KeyUserID, KeyUserEmployeeID, KeyUserInfo} {
				value, _ := storage.Get(key)
				gomega.Expect(value).To(gomega.BeEmpty(), "key %s should be cleared", key)
			}
		})

		ginkgo.It("should be idempotent", func() {
			login()
			store.Logout()
			first := store.Snapshot()
			store.Logout()
			gomega.Expect(store.Snapshot()).To(gomega.Equal(first))
			gomega.Expect(store.IsAuthenticated()).To(gomega.BeFalse())
		})

		ginkgo.It("should clear the in-memory session even when storage fails", func() {
			failing := &failingStorage{MemoryStorage: NewMemoryStorage()}
			failingStore := NewStore(failing, nil)
			err := failingStore.Login("token-123", "Alice", RoleEmployee, Identity{EmployeeID: "EMP001"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			failing.failDelete = true
			failingStore.Logout()
			gomega.Expect(failingStore.IsAuthenticated()).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("RoleIs", func() {
		ginkgo.It("should compare roles case-insensitively", func() {
			err := store.Login("token-123", "Root", Role("ADMIN"), Identity{Username: "root"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(store.RoleIs(RoleAdmin)).To(gomega.BeTrue())
			gomega.Expect(store.RoleIs(Role("Admin"))).To(gomega.BeTrue())
			gomega.Expect(store.RoleIs(RoleEmployee)).To(gomega.BeFalse())
		})

		ginkgo.It("should never match an empty session role", func() {
			gomega.Expect(store.RoleIs(RoleEmployee)).To(gomega.BeFalse())
			gomega.Expect(store.RoleIs("")).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("restore", func() {
		ginkgo.It("should rebuild an equivalent session from storage alone", func() {
			login()

			rebuilt := NewStore(storage, nil)
			gomega.Expect(rebuilt.IsAuthenticated()).To(gomega.BeTrue())
			gomega.Expect(rebuilt.RoleIs(RoleEmployee)).To(gomega.BeTrue())
			gomega.Expect(rebuilt.Snapshot()).To(gomega.Equal(store.Snapshot()))
		})

		ginkgo.It("should discard malformed identity JSON without crashing", func() {
			login()
			gomega.Expect(storage.Set(KeyUserInfo, "{not-json")).To(gomega.Succeed())

			rebuilt := NewStore(storage, nil)
			gomega.Expect(rebuilt.IsAuthenticated()).To(gomega.BeTrue())
			gomega.Expect(rebuilt.Snapshot().Identity).To(gomega.Equal(Identity{}))

			// corrupt key is removed
			value, _ := storage.Get(KeyUserInfo)
			gomega.Expect(value).To(gomega.BeEmpty())
		})
	})
})
