package devserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/hrms-portal/internal/session"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginUser struct {
	Name  string `json:"name"`
	EmpID string `json:"empId,omitempty"`
	Dept  string `json:"dept,omitempty"`
	Pos   string `json:"pos,omitempty"`
}

type loginResponse struct {
	Token    string    `json:"token"`
	Role     string    `json:"role"`
	Username string    `json:"username"`
	User     loginUser `json:"user"`
}

func listEnvelope(items interface{}, total int) map[string]interface{} {
	return map[string]interface{}{"data": items, "total": total}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.data.mu.RLock()
	emp := s.data.employees[req.Username]
	adm := s.data.admins[req.Username]
	s.data.mu.RUnlock()

	switch {
	case emp != nil:
		if bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)) != nil {
			s.writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		token, err := s.issueToken(emp.EmpID, string(session.RoleEmployee), emp.EmpID)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}
		s.writeJSON(w, http.StatusOK, loginResponse{
			Token:    token,
			Role:     string(session.RoleEmployee),
			Username: emp.EmpID,
			User:     loginUser{Name: emp.Name, EmpID: emp.EmpID, Dept: emp.Department, Pos: emp.Position},
		})
	case adm != nil:
		if bcrypt.CompareHashAndPassword([]byte(adm.PasswordHash), []byte(req.Password)) != nil {
			s.writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		token, err := s.issueToken(adm.Username, string(session.RoleAdmin), "")
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}
		s.writeJSON(w, http.StatusOK, loginResponse{
			Token:    token,
			Role:     string(session.RoleAdmin),
			Username: adm.Username,
			User:     loginUser{Name: adm.Name},
		})
	default:
		s.writeError(w, http.StatusUnauthorized, "invalid credentials")
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if _, exists := s.data.employees[req.Username]; exists {
		s.writeError(w, http.StatusConflict, "account already exists")
		return
	}
	rec := &employeeRecord{
		ID:           s.data.id(),
		EmpID:        req.Username,
		Name:         req.Name,
		Email:        req.Email,
		HireDate:     time.Now().Format("2006-01-02"),
		Status:       "active",
		PasswordHash: hash,
	}
	s.data.employees[rec.EmpID] = rec
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	items := s.data.listEmployees(r.URL.Query().Get("keyword"))
	s.writeJSON(w, http.StatusOK, listEnvelope(items, len(items)))
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	empID := chi.URLParam(r, "empId")
	s.data.mu.RLock()
	emp := s.data.employees[empID]
	s.data.mu.RUnlock()
	if emp == nil {
		s.writeError(w, http.StatusNotFound, "employee not found")
		return
	}
	s.writeJSON(w, http.StatusOK, emp)
}

func (s *Server) handleMySalary(w http.ResponseWriter, r *http.Request) {
	empID := chi.URLParam(r, "empId")
	c := claimsFrom(r)
	if c != nil && !session.Role(c.Role).Equals(session.RoleAdmin) && c.EmpID != empID {
		s.writeError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	items := s.data.listSalaries(empID)
	s.writeJSON(w, http.StatusOK, listEnvelope(items, len(items)))
}

type employeePayload struct {
	EmpID      string `json:"empId"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	HireDate   string `json:"hireDate"`
	Password   string `json:"password"`
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeePayload
	if !s.decode(w, r, &req) {
		return
	}
	if req.EmpID == "" {
		s.writeError(w, http.StatusBadRequest, "empId is required")
		return
	}
	password := req.Password
	if password == "" {
		password = "changeme"
	}
	hash, err := s.hash(password)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if _, exists := s.data.employees[req.EmpID]; exists {
		s.writeError(w, http.StatusConflict, "employee already exists")
		return
	}
	rec := &employeeRecord{
		ID: s.data.id(), EmpID: req.EmpID, Name: req.Name,
		Department: req.Department, Position: req.Position,
		Email: req.Email, Phone: req.Phone, HireDate: req.HireDate,
		Status: "active", PasswordHash: hash,
	}
	s.data.employees[rec.EmpID] = rec
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	empID := chi.URLParam(r, "empId")
	var req employeePayload
	if !s.decode(w, r, &req) {
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	emp := s.data.employees[empID]
	if emp == nil {
		s.writeError(w, http.StatusNotFound, "employee not found")
		return
	}
	if req.Name != "" {
		emp.Name = req.Name
	}
	if req.Department != "" {
		emp.Department = req.Department
	}
	if req.Position != "" {
		emp.Position = req.Position
	}
	if req.Email != "" {
		emp.Email = req.Email
	}
	if req.Phone != "" {
		emp.Phone = req.Phone
	}
	s.writeJSON(w, http.StatusOK, emp)
}

func (s *Server) handleUpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	empID := chi.URLParam(r, "empId")
	c := claimsFrom(r)
	if c != nil && !session.Role(c.Role).Equals(session.RoleAdmin) && c.EmpID != empID {
		s.writeError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	var req employeePayload
	if !s.decode(w, r, &req) {
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	emp := s.data.employees[empID]
	if emp == nil {
		s.writeError(w, http.StatusNotFound, "employee not found")
		return
	}
	if req.Email != "" {
		emp.Email = req.Email
	}
	if req.Phone != "" {
		emp.Phone = req.Phone
	}
	s.writeJSON(w, http.StatusOK, emp)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleEmployeeChangePassword(w http.ResponseWriter, r *http.Request) {
	empID := chi.URLParam(r, "empId")
	c := claimsFrom(r)
	if c != nil && !session.Role(c.Role).Equals(session.RoleAdmin) && c.EmpID != empID {
		s.writeError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	var req changePasswordRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	emp := s.data.employees[empID]
	if emp == nil {
		s.writeError(w, http.StatusNotFound, "employee not found")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.OldPassword)) != nil {
		s.writeError(w, http.StatusBadRequest, "old password is incorrect")
		return
	}
	hash, err := s.hash(req.NewPassword)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	emp.PasswordHash = hash
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (s *Server) handleMarkResigned(w http.ResponseWriter, r *http.Request) {
	empID := chi.URLParam(r, "empId")
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	emp := s.data.employees[empID]
	if emp == nil {
		s.writeError(w, http.StatusNotFound, "employee not found")
		return
	}
	emp.Status = "resigned"
	s.writeJSON(w, http.StatusOK, emp)
}

func (s *Server) handleListSalaries(w http.ResponseWriter, r *http.Request) {
	items := s.data.listSalaries(r.URL.Query().Get("keyword"))
	s.writeJSON(w, http.StatusOK, listEnvelope(items, len(items)))
}

func (s *Server) handleCreateSalary(w http.ResponseWriter, r *http.Request) {
	var req salaryRecord
	if !s.decode(w, r, &req) {
		return
	}
	if req.EmpID == "" || req.Month == "" {
		s.writeError(w, http.StatusBadRequest, "empId and month are required")
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	req.ID = s.data.id()
	req.Net = req.Base + req.Bonus - req.Deduction
	s.data.salaries[req.ID] = &req
	s.writeJSON(w, http.StatusCreated, &req)
}

func (s *Server) handleUpdateSalary(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req salaryRecord
	if !s.decode(w, r, &req) {
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	rec := s.data.salaries[id]
	if rec == nil {
		s.writeError(w, http.StatusNotFound, "salary record not found")
		return
	}
	rec.Base = req.Base
	rec.Bonus = req.Bonus
	rec.Deduction = req.Deduction
	rec.Net = req.Base + req.Bonus - req.Deduction
	if req.Status != "" {
		rec.Status = req.Status
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteSalary(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if s.data.salaries[id] == nil {
		s.writeError(w, http.StatusNotFound, "salary record not found")
		return
	}
	delete(s.data.salaries, id)
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (s *Server) handleSubmitLeave(w http.ResponseWriter, r *http.Request) {
	var req leaveRecord
	if !s.decode(w, r, &req) {
		return
	}
	if req.EmpID == "" || req.StartDate == "" || req.EndDate == "" {
		s.writeError(w, http.StatusBadRequest, "empId and leave period are required")
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	req.ID = s.data.id()
	req.Status = "pending"
	s.data.leaves[req.ID] = &req
	s.writeJSON(w, http.StatusCreated, &req)
}

func (s *Server) handleListLeaves(w http.ResponseWriter, r *http.Request) {
	items := s.data.listLeaves(r.URL.Query().Get("empId"))
	s.writeJSON(w, http.StatusOK, listEnvelope(items, len(items)))
}

func (s *Server) handleMyLeaves(w http.ResponseWriter, r *http.Request) {
	empID := chi.URLParam(r, "empId")
	c := claimsFrom(r)
	if c != nil && !session.Role(c.Role).Equals(session.RoleAdmin) && c.EmpID != empID {
		s.writeError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	items := s.data.listLeaves(empID)
	s.writeJSON(w, http.StatusOK, listEnvelope(items, len(items)))
}

func (s *Server) handleMyLeaveDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.data.mu.RLock()
	rec := s.data.leaves[id]
	s.data.mu.RUnlock()
	if rec == nil {
		s.writeError(w, http.StatusNotFound, "application not found")
		return
	}
	c := claimsFrom(r)
	if c != nil && !session.Role(c.Role).Equals(session.RoleAdmin) && c.EmpID != rec.EmpID {
		s.writeError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

type leaveReviewRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func (s *Server) handleReviewLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req leaveReviewRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Status != "approved" && req.Status != "rejected" {
		s.writeError(w, http.StatusBadRequest, "status must be approved or rejected")
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	rec := s.data.leaves[id]
	if rec == nil {
		s.writeError(w, http.StatusNotFound, "application not found")
		return
	}
	rec.Status = req.Status
	rec.Comment = req.Comment
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if s.data.leaves[id] == nil {
		s.writeError(w, http.StatusNotFound, "application not found")
		return
	}
	delete(s.data.leaves, id)
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (s *Server) handleWithdrawLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	c := claimsFrom(r)

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	rec := s.data.leaves[id]
	if rec == nil {
		s.writeError(w, http.StatusNotFound, "application not found")
		return
	}
	if c != nil && !session.Role(c.Role).Equals(session.RoleAdmin) && c.EmpID != rec.EmpID {
		s.writeError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	if rec.Status != "pending" {
		s.writeError(w, http.StatusBadRequest, "only pending applications can be withdrawn")
		return
	}
	delete(s.data.leaves, id)
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "withdrawn"})
}

func (s *Server) handleListAnnouncements(w http.ResponseWriter, _ *http.Request) {
	items := s.data.listAnnouncements()
	s.writeJSON(w, http.StatusOK, listEnvelope(items, len(items)))
}

func (s *Server) handleGetAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.data.mu.RLock()
	rec := s.data.announcements[id]
	s.data.mu.RUnlock()
	if rec == nil {
		s.writeError(w, http.StatusNotFound, "announcement not found")
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

type announcementPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req announcementPayload
	if !s.decode(w, r, &req) {
		return
	}
	if req.Title == "" || req.Content == "" {
		s.writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}
	author := ""
	if c := claimsFrom(r); c != nil {
		author = c.Username
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	rec := &announcementRecord{
		ID: s.data.id(), Title: req.Title, Content: req.Content,
		Author: author, CreatedAt: time.Now().Format("2006-01-02"),
	}
	s.data.announcements[rec.ID] = rec
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req announcementPayload
	if !s.decode(w, r, &req) {
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	rec := s.data.announcements[id]
	if rec == nil {
		s.writeError(w, http.StatusNotFound, "announcement not found")
		return
	}
	if req.Title != "" {
		rec.Title = req.Title
	}
	if req.Content != "" {
		rec.Content = req.Content
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if s.data.announcements[id] == nil {
		s.writeError(w, http.StatusNotFound, "announcement not found")
		return
	}
	delete(s.data.announcements, id)
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (s *Server) handleListAdmins(w http.ResponseWriter, _ *http.Request) {
	items := s.data.listAdmins("")
	s.writeJSON(w, http.StatusOK, listEnvelope(items, len(items)))
}

func (s *Server) handleSearchAdmins(w http.ResponseWriter, r *http.Request) {
	items := s.data.listAdmins(r.URL.Query().Get("keyword"))
	s.writeJSON(w, http.StatusOK, listEnvelope(items, len(items)))
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, _ *http.Request) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	pending := 0
	for _, l := range s.data.leaves {
		if l.Status == "pending" {
			pending++
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"employeeCount":     len(s.data.employees),
		"pendingLeaves":     pending,
		"announcementCount": len(s.data.announcements),
	})
}

func (s *Server) handleMonthlyTrends(w http.ResponseWriter, _ *http.Request) {
	// Canned series; the stub has no historical data to aggregate.
	s.writeJSON(w, http.StatusOK, []map[string]interface{}{
		{"month": "2026-06", "hires": 2, "departures": 0, "leaves": 3},
		{"month": "2026-07", "hires": 1, "departures": 1, "leaves": 4},
		{"month": "2026-08", "hires": 1, "departures": 0, "leaves": 2},
	})
}

func (s *Server) handleGetAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	for _, a := range s.data.admins {
		if a.ID == id {
			s.writeJSON(w, http.StatusOK, a)
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "admin not found")
}

type adminPayload struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminPayload
	if !s.decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	hash, err := s.hash(req.Password)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if _, exists := s.data.admins[req.Username]; exists {
		s.writeError(w, http.StatusConflict, "admin already exists")
		return
	}
	rec := &adminRecord{ID: s.data.id(), Username: req.Username, Name: req.Name, Email: req.Email, PasswordHash: hash}
	s.data.admins[rec.Username] = rec
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req adminPayload
	if !s.decode(w, r, &req) {
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for _, a := range s.data.admins {
		if a.ID == id {
			if req.Name != "" {
				a.Name = req.Name
			}
			if req.Email != "" {
				a.Email = req.Email
			}
			s.writeJSON(w, http.StatusOK, a)
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "admin not found")
}

func (s *Server) handleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for username, a := range s.data.admins {
		if a.ID == id {
			if len(s.data.admins) == 1 {
				s.writeError(w, http.StatusBadRequest, "cannot delete the last admin")
				return
			}
			delete(s.data.admins, username)
			s.writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "admin not found")
}

func (s *Server) handleAdminChangePassword(w http.ResponseWriter, r *http.Request) {
	c := claimsFrom(r)
	var req changePasswordRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	adm := s.data.admins[c.Username]
	if adm == nil {
		s.writeError(w, http.StatusNotFound, "admin not found")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(adm.PasswordHash), []byte(req.OldPassword)) != nil {
		s.writeError(w, http.StatusBadRequest, "old password is incorrect")
		return
	}
	hash, err := s.hash(req.NewPassword)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	adm.PasswordHash = hash
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
