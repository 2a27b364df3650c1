package entity

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// User representa un usuario identificado por su id de Telegram.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	Shift     Shift
	IsAdmin   bool
	CreatedAt time.Time
}

// Profile datos mutables que llegan en cada login de Telegram.
type Profile struct {
	FirstName string
	LastName  string
	Username  string
}

// NewProfile normaliza los nombres a NFC y recorta espacios.
func NewProfile(firstName, lastName, username string) Profile {
	return Profile{
		FirstName: normalize(firstName),
		LastName:  normalize(lastName),
		Username:  normalize(username),
	}
}

func normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// NewUser construye un usuario nuevo con el turno inicial según isAdmin.
func NewUser(id int64, p Profile, isAdmin bool, now time.Time) *User {
	return &User{
		ID:        id,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Username:  p.Username,
		Shift:     InitialShift(isAdmin),
		IsAdmin:   isAdmin,
		CreatedAt: now,
	}
}

// ApplyLogin actualiza perfil y flag de admin de un usuario existente.
// El turno sólo cambia cuando está en pending y el usuario entra como admin.
func (u *User) ApplyLogin(p Profile, isAdmin bool) {
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.Username = p.Username
	u.IsAdmin = isAdmin
	if u.Shift == ShiftPending && isAdmin {
		u.Shift = DefaultAdminShift
	}
}

// IsActive indica si el usuario ya tiene turno asignado.
func (u *User) IsActive() bool {
	return u.Shift.IsWorking()
}
