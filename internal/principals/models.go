package principals

import (
	"time"

	"github.com/google/uuid"
)

// Principal is any authenticated party: platform operators, venues,
// entertainers and attendees all share this shape. There is no stored role;
// a principal's role is resolved per agreement from the ids it carries.
type Principal struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`

	// Wallet account that receives NFTs minted for this principal. Optional;
	// purchases fall back to the principal id when unset.
	WalletAccount string `json:"wallet_account,omitempty" gorm:"type:varchar(100)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
