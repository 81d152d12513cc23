package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DirectoryUser is a read-only account from the security directory.
type DirectoryUser struct {
	ID          int64   `json:"id" db:"id"`
	DisplayName string  `json:"displayName" db:"display_name"`
	Email       *string `json:"email,omitempty" db:"email"`
	Phone       *string `json:"phone,omitempty" db:"phone"`
	TelegramID  *string `json:"telegramId,omitempty" db:"telegram_id"`
	Active      bool    `json:"active" db:"active"`
}

// ChatID parses the stored chat identity. Blank or non-numeric values mean the
// user cannot be reached on the chat transport.
func (u *DirectoryUser) ChatID() (int64, bool) {
	if u == nil || u.TelegramID == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(*u.TelegramID), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func (u *DirectoryUser) Name() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.DisplayName); name != "" {
		return name
	}
	return FallbackUserName(u.ID)
}

func (u *DirectoryUser) HasEmail() bool {
	return u != nil && u.Email != nil && strings.TrimSpace(*u.Email) != ""
}

func FallbackUserName(id int64) string {
	return fmt.Sprintf("Usuario %d", id)
}
