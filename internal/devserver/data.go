package devserver

import (
	"sort"
	"strings"
	"sync"
)

// In-memory records backing the stub. Shapes mirror what the real backend
// returns so the client-side modules can be exercised unchanged.

type employeeRecord struct {
	ID           int64  `json:"id"`
	EmpID        string `json:"empId"`
	Name         string `json:"name"`
	Department   string `json:"department"`
	Position     string `json:"position"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	HireDate     string `json:"hireDate"`
	Status       string `json:"status"`
	PasswordHash string `json:"-"`
}

type adminRecord struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

type salaryRecord struct {
	ID        int64   `json:"id"`
	EmpID     string  `json:"empId"`
	Month     string  `json:"month"`
	Base      float64 `json:"base"`
	Bonus     float64 `json:"bonus"`
	Deduction float64 `json:"deduction"`
	Net       float64 `json:"net"`
	Status    string  `json:"status"`
}

type leaveRecord struct {
	ID        int64  `json:"id"`
	EmpID     string `json:"empId"`
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	Comment   string `json:"comment"`
}

type announcementRecord struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

type dataStore struct {
	mu            sync.RWMutex
	nextID        int64
	employees     map[string]*employeeRecord
	admins        map[string]*adminRecord
	salaries      map[int64]*salaryRecord
	leaves        map[int64]*leaveRecord
	announcements map[int64]*announcementRecord
}

func newDataStore() *dataStore {
	return &dataStore{
		nextID:        1000,
		employees:     make(map[string]*employeeRecord),
		admins:        make(map[string]*adminRecord),
		salaries:      make(map[int64]*salaryRecord),
		leaves:        make(map[int64]*leaveRecord),
		announcements: make(map[int64]*announcementRecord),
	}
}

func (d *dataStore) id() int64 {
	d.nextID++
	return d.nextID
}

func (d *dataStore) listEmployees(keyword string) []*employeeRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*employeeRecord
	for _, e := range d.employees {
		if keyword == "" ||
			strings.Contains(strings.ToLower(e.Name), strings.ToLower(keyword)) ||
			strings.Contains(strings.ToLower(e.EmpID), strings.ToLower(keyword)) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmpID < out[j].EmpID })
	return out
}

func (d *dataStore) listSalaries(empID string) []*salaryRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*salaryRecord
	for _, s := range d.salaries {
		if empID == "" || s.EmpID == empID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *dataStore) listLeaves(empID string) []*leaveRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*leaveRecord
	for _, l := range d.leaves {
		if empID == "" || l.EmpID == empID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *dataStore) listAnnouncements() []*announcementRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*announcementRecord
	for _, a := range d.announcements {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (d *dataStore) listAdmins(keyword string) []*adminRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*adminRecord
	for _, a := range d.admins {
		if keyword == "" ||
			strings.Contains(strings.ToLower(a.Username), strings.ToLower(keyword)) ||
			strings.Contains(strings.ToLower(a.Name), strings.ToLower(keyword)) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
