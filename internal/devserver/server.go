package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/hrms-portal/internal/session"
)

// Config holds the knobs for the local stub backend.
type Config struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BCryptCost int
}

type claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	EmpID    string `json:"empId,omitempty"`
	jwt.RegisteredClaims
}

type claimsContextKey struct{}

// Server is an in-memory HRMS backend for local development and tests.
// It speaks the same wire shapes the production API does.
type Server struct {
	cfg    Config
	logger *slog.Logger
	data   *dataStore
}

func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("devserver: jwt secret is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.BCryptCost == 0 {
		cfg.BCryptCost = bcrypt.MinCost
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{cfg: cfg, logger: logger, data: newDataStore()}
	if err := s.seed(); err != nil {
		return nil, fmt.Errorf("devserver: seed: %w", err)
	}
	return s, nil
}

func (s *Server) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BCryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (s *Server) seed() error {
	rootHash, err := s.hash("admin123")
	if err != nil {
		return err
	}
	empHash, err := s.hash("password123")
	if err != nil {
		return err
	}

	d := s.data
	d.admins["root"] = &adminRecord{ID: d.id(), Username: "root", Name: "System Admin", Email: "root@hrms.local", PasswordHash: rootHash}

	d.employees["EMP001"] = &employeeRecord{
		ID: d.id(), EmpID: "EMP001", Name: "Alice Zhang",
		Department: "Engineering", Position: "Developer",
		Email: "alice@hrms.local", HireDate: "2023-04-01", Status: "active",
		PasswordHash: empHash,
	}
	d.employees["EMP002"] = &employeeRecord{
		ID: d.id(), EmpID: "EMP002", Name: "Bob Li",
		Department: "Sales", Position: "Account Rep",
		Email: "bob@hrms.local", HireDate: "2024-01-15", Status: "active",
		PasswordHash: empHash,
	}

	salaryID := d.id()
	d.salaries[salaryID] = &salaryRecord{ID: salaryID, EmpID: "EMP001", Month: "2026-08", Base: 9000, Bonus: 500, Deduction: 200, Net: 9300, Status: "paid"}
	salaryID = d.id()
	d.salaries[salaryID] = &salaryRecord{ID: salaryID, EmpID: "EMP002", Month: "2026-08", Base: 7000, Bonus: 300, Deduction: 150, Net: 7150, Status: "paid"}

	leaveID := d.id()
	d.leaves[leaveID] = &leaveRecord{ID: leaveID, EmpID: "EMP001", Type: "annual", StartDate: "2026-09-10", EndDate: "2026-09-12", Reason: "family trip", Status: "pending"}

	annID := d.id()
	d.announcements[annID] = &announcementRecord{ID: annID, Title: "Welcome", Content: "The HR portal is live.", Author: "System Admin", CreatedAt: "2026-08-01"}
	return nil
}

// Handler builds the chi router for the stub API.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(s.recovery)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", s.handleLogin)
			ar.Post("/register", s.handleRegister)
			ar.With(s.authMiddleware).Post("/logout", s.handleLogout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(s.authMiddleware)

			pr.Route("/employees", func(er chi.Router) {
				er.Get("/", s.handleListEmployees)
				er.Get("/byEmpId/{empId}", s.handleGetEmployee)
				er.Get("/my-salary/{empId}", s.handleMySalary)
				er.Put("/my-profile/{empId}", s.handleUpdateMyProfile)
				er.Put("/change-password/{empId}", s.handleEmployeeChangePassword)

				er.Group(func(mr chi.Router) {
					mr.Use(s.requireRole(session.RoleAdmin))
					mr.Post("/", s.handleCreateEmployee)
					mr.Put("/{empId}", s.handleUpdateEmployee)
					mr.Delete("/{empId}/resigned", s.handleMarkResigned)
				})
			})

			pr.Route("/salaries", func(sr chi.Router) {
				sr.Use(s.requireRole(session.RoleAdmin))
				sr.Get("/", s.handleListSalaries)
				sr.Post("/", s.handleCreateSalary)
				sr.Put("/{id}", s.handleUpdateSalary)
				sr.Delete("/{id}", s.handleDeleteSalary)
			})

			pr.Route("/leave-applications", func(lr chi.Router) {
				lr.Post("/", s.handleSubmitLeave)
				lr.Get("/my-applications/{empId}", s.handleMyLeaves)
				lr.Get("/my-applications/detail/{id}", s.handleMyLeaveDetail)
				lr.Delete("/my-applications/{id}", s.handleWithdrawLeave)

				lr.Group(func(mr chi.Router) {
					mr.Use(s.requireRole(session.RoleAdmin))
					mr.Get("/", s.handleListLeaves)
					mr.Put("/{id}", s.handleReviewLeave)
					mr.Delete("/{id}", s.handleDeleteLeave)
				})
			})

			pr.Route("/announcements", func(ar chi.Router) {
				ar.Get("/", s.handleListAnnouncements)
				ar.Get("/{id}", s.handleGetAnnouncement)

				ar.Group(func(mr chi.Router) {
					mr.Use(s.requireRole(session.RoleAdmin))
					mr.Post("/", s.handleCreateAnnouncement)
					mr.Put("/{id}", s.handleUpdateAnnouncement)
					mr.Delete("/{id}", s.handleDeleteAnnouncement)
				})
			})

			pr.Route("/admins", func(ar chi.Router) {
				ar.Use(s.requireRole(session.RoleAdmin))
				ar.Get("/", s.handleListAdmins)
				ar.Get("/search", s.handleSearchAdmins)
				ar.Get("/dashboard-stats", s.handleDashboardStats)
				ar.Get("/monthly-trends", s.handleMonthlyTrends)
				ar.Put("/change-password", s.handleAdminChangePassword)
				ar.Get("/{id}", s.handleGetAdmin)
				ar.Post("/", s.handleCreateAdmin)
				ar.Put("/{id}", s.handleUpdateAdmin)
				ar.Delete("/{id}", s.handleDeleteAdmin)
			})
		})
	})

	return router
}

func (s *Server) issueToken(username, role, empID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: username,
		Role:     role,
		EmpID:    empID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	})
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *Server) parseToken(tokenString string) (*claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return c, nil
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearer(r)
		if raw == "" {
			s.writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		c, err := s.parseToken(raw)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsContextKey{}, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireRole(role session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := claimsFrom(r)
			if c == nil || !session.Role(c.Role).Equals(role) {
				s.writeError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in handler",
					"panic", rec,
					"path", r.URL.Path,
					"stack", string(debug.Stack()))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func claimsFrom(r *http.Request) *claims {
	c, _ := r.Context().Value(claimsContextKey{}).(*claims)
	return c
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]interface{}{
		"code":    status,
		"message": message,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode error response", "error", err)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
