package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Thin wrappers over the admin dashboard endpoints. These are view
// glue for external collaborators: no invariants live here, the
// backend owns validation and authorization.

// PublicationRequest is a pending accommodation publication request.
type PublicationRequest struct {
	ID          int64  `json:"id"`
	UserName    string `json:"nombreUsuario"`
	Title       string `json:"titulo"`
	Status      string `json:"estado"`
	Comment     string `json:"comentario,omitempty"`
	RequestedAt string `json:"fechaSolicitud"`
}

// OwnerRequest is a pending request to upgrade an account to OWNER.
type OwnerRequest struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"usuarioId"`
	UserName     string `json:"usuarioNombre"`
	UserEmail    string `json:"usuarioEmail"`
	Status       string `json:"estado"`
	Comment      string `json:"comentario,omitempty"`
	DocumentPath string `json:"documentoRuta,omitempty"`
	RequestedAt  string `json:"fechaSolicitud"`
}

// RequestDecision approves or rejects a pending request.
type RequestDecision struct {
	ID      int64  `json:"id"`
	Approve bool   `json:"aprobar"`
	Comment string `json:"comentario,omitempty"`
}

// UserAccount is the backend's representation of a managed account.
type UserAccount struct {
	ID           int64    `json:"id"`
	Name         string   `json:"nombre"`
	Email        string   `json:"email"`
	Role         UserRole `json:"role"`
	Phone        string   `json:"telefono,omitempty"`
	RegisteredAt string   `json:"fechaRegistro,omitempty"`
}

// CreateUserRequest creates an account on behalf of an administrator.
type CreateUserRequest struct {
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"telefono,omitempty"`
}

// AdminClient exposes the user-management and approval endpoints.
type AdminClient struct {
	api *Client
}

// NewAdminClient wraps an API client for admin calls.
func NewAdminClient(api *Client) *AdminClient {
	return &AdminClient{api: api}
}

// PendingPublicationRequests lists publication requests awaiting a
// decision.
func (a *AdminClient) PendingPublicationRequests(ctx context.Context) ([]PublicationRequest, error) {
	var out []PublicationRequest
	if err := a.api.do(ctx, http.MethodGet, "/api/solicitudes-publicacion/pendientes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RespondPublicationRequest approves or rejects a publication request.
func (a *AdminClient) RespondPublicationRequest(ctx context.Context, decision RequestDecision) (*PublicationRequest, error) {
	out := &PublicationRequest{}
	if err := a.api.do(ctx, http.MethodPost, "/api/solicitudes-publicacion/responder", decision, out); err != nil {
		return nil, err
	}
	return out, nil
}

// PendingOwnerRequests lists owner upgrade requests awaiting a
// decision.
func (a *AdminClient) PendingOwnerRequests(ctx context.Context) ([]OwnerRequest, error) {
	var out []OwnerRequest
	if err := a.api.do(ctx, http.MethodGet, "/api/solicitudes-owner/pendientes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RespondOwnerRequest approves or rejects an owner upgrade request.
func (a *AdminClient) RespondOwnerRequest(ctx context.Context, decision RequestDecision) (*OwnerRequest, error) {
	out := &OwnerRequest{}
	if err := a.api.do(ctx, http.MethodPost, "/api/solicitudes-owner/responder", decision, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Users lists every account.
func (a *AdminClient) Users(ctx context.Context) ([]UserAccount, error) {
	var out []UserAccount
	if err := a.api.do(ctx, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UsersByRole lists accounts holding a role.
func (a *AdminClient) UsersByRole(ctx context.Context, role UserRole) ([]UserAccount, error) {
	var out []UserAccount
	path := fmt.Sprintf("/api/users/role/%s", url.PathEscape(string(role)))
	if err := a.api.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AssignRole changes an account's role on behalf of an administrator.
func (a *AdminClient) AssignRole(ctx context.Context, userID int64, role UserRole, adminID int64) (*UserAccount, error) {
	params := url.Values{}
	params.Set("newRole", string(role))
	params.Set("adminUsuarioId", fmt.Sprintf("%d", adminID))

	out := &UserAccount{}
	path := fmt.Sprintf("/api/users/%d/role?%s", userID, params.Encode())
	if err := a.api.do(ctx, http.MethodPut, path, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser creates an account with an explicit role on behalf of an
// administrator.
func (a *AdminClient) CreateUser(ctx context.Context, req CreateUserRequest, role UserRole, adminID int64) (*UserAccount, error) {
	params := url.Values{}
	params.Set("role", string(role))
	params.Set("adminUsuarioId", fmt.Sprintf("%d", adminID))

	out := &UserAccount{}
	if err := a.api.do(ctx, http.MethodPost, "/api/users?"+params.Encode(), req, out); err != nil {
		return nil, err
	}
	return out, nil
}
