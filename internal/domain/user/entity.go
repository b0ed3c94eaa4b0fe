package user

import (
	"time"

	"github.com/google/uuid"

	"coupon-manager/internal/domain/branch"
)

// User is a staff or admin account. Staff accounts carry the branch
// they operate; the shared branch password is configuration, not part
// of the account.
type User struct {
	id           uuid.UUID
	email        Email
	passwordHash string
	displayName  string
	branchCode   *branch.Code
	role         Role
	lastLogin    *time.Time
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(email Email, passwordHash, displayName string, role Role, branchCode *branch.Code) *User {
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		displayName:  displayName,
		role:         role,
		branchCode:   branchCode,
		isActive:     true,
	}
}

func (u *User) ID() uuid.UUID            { return u.id }
func (u *User) Email() Email             { return u.email }
func (u *User) PasswordHash() string     { return u.passwordHash }
func (u *User) DisplayName() string      { return u.displayName }
func (u *User) BranchCode() *branch.Code { return u.branchCode }
func (u *User) Role() Role               { return u.role }
func (u *User) LastLogin() *time.Time    { return u.lastLogin }
func (u *User) IsActive() bool           { return u.isActive }
func (u *User) CreatedAt() time.Time     { return u.createdAt }
func (u *User) UpdatedAt() time.Time     { return u.updatedAt }
