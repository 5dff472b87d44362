// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package portal

// Role is an account's authority level as reported by the server.
type Role string

const (
	// RoleAdmin can manage users, delete files, and read audit logs.
	RoleAdmin Role = "admin"
	// RoleEmployee can browse, upload, and download files.
	RoleEmployee Role = "employee"
)

// UserProfile is an account as the server describes it. The Role field is
// display metadata only; every privileged operation is authorized again
// server-side.
type UserProfile struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p *UserProfile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// FileRecord is one entry in the file repository listing.
type FileRecord struct {
	ID         int64  `json:"id"`
	Filename   string `json:"filename"`
	Folder     string `json:"folder"`
	UploadedBy string `json:"uploaded_by_email"`
	UploadDate string `json:"upload_date"`
}

// LogEntry is one row of the server's audit log.
type LogEntry struct {
	ID         int64  `json:"id"`
	Timestamp  string `json:"timestamp"`
	ActorEmail string `json:"actor_email"`
	Action     string `json:"action"`
	Details    string `json:"details"`
}

// RegisterRequest holds the fields for creating a new account. The server
// assigns the employee role to self-registered accounts.
type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// CreateUserRequest holds the fields for an admin creating an account
// directly, including its role.
type CreateUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// tokenResponse is the body of a successful login.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
