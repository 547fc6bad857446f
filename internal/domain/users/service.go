package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetcare-api/internal/ports/auth"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrDisposableEmail = errors.New("disposable email not allowed")
)

type Service struct {
	repo              Repository
	disposableDomains []string
	now               func() time.Time
}

// NewService recibe la denylist de dominios descartables (fragmentos;
// el match es por substring sobre el dominio del email).
func NewService(repo Repository, disposableDomains []string) *Service {
	cleaned := make([]string, 0, len(disposableDomains))
	for _, d := range disposableDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			cleaned = append(cleaned, d)
		}
	}
	return &Service{
		repo:              repo,
		disposableDomains: cleaned,
		now:               time.Now,
	}
}

// Register es el camino de sign-in: rechaza emails descartables y, si el
// usuario no existe en ninguna colección, lo clasifica por heurística de email
// (contiene "vet" o "clinic" => clínica; si no => dueño). La clasificación se
// decide una sola vez; un usuario ya registrado conserva su rol aunque la
// heurística diga otra cosa.
func (s *Service) Register(ctx context.Context, claims auth.Claims) (User, error) {
	id := strings.TrimSpace(claims.UserID)
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if id == "" || email == "" {
		return User{}, ErrInvalidInput
	}

	if s.isDisposable(email) {
		return User{}, ErrDisposableEmail
	}

	// Membresía existente gana siempre.
	if u, err := s.repo.GetClinic(ctx, id); err == nil {
		return u, nil
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	if u, err := s.repo.GetOwner(ctx, id); err == nil {
		return u, nil
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	u := User{
		ID:          id,
		Email:       email,
		DisplayName: strings.TrimSpace(claims.DisplayName),
		Role:        classify(email),
		CreatedAt:   s.now(),
	}

	var err error
	if u.Role == RoleClinic {
		err = s.repo.CreateClinic(ctx, u)
	} else {
		err = s.repo.CreateOwner(ctx, u)
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// Resolve busca al usuario en ambas colecciones y devuelve su rol resuelto.
func (s *Service) Resolve(ctx context.Context, userID string) (User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return User{}, ErrInvalidInput
	}

	if u, err := s.repo.GetClinic(ctx, userID); err == nil {
		return u, nil
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	if u, err := s.repo.GetOwner(ctx, userID); err == nil {
		return u, nil
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	return User{}, ErrNotFound
}

// IsClinic responde membresía en la colección de veterinarias.
func (s *Service) IsClinic(ctx context.Context, userID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, nil
	}
	_, err := s.repo.GetClinic(ctx, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (s *Service) isDisposable(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := email[at+1:]
	for _, frag := range s.disposableDomains {
		if strings.Contains(domain, frag) {
			return true
		}
	}
	return false
}

// classify es best-effort y puede clasificar mal; no hay camino de corrección.
func classify(email string) Role {
	if strings.Contains(email, "vet") || strings.Contains(email, "clinic") {
		return RoleClinic
	}
	return RoleOwner
}
