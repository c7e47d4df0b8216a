package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table         string
	ID            string
	Username      string
	Email         string
	FirstName     string
	LastName      string
	Bio           string
	Role          string
	IsStaff       string
	IsSuperuser   string
	SecurityStamp string
	LastLoginAt   string
	CreatedAt     string
	UpdatedAt     string
	DeletedAt     string

	// Constraint names
	UniqueUsername string
	UniqueEmail    string
	CheckRole      string
	CheckReserved  string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:         "users.account",
	ID:            "id",
	Username:      "username",
	Email:         "email",
	FirstName:     "firstname",
	LastName:      "lastname",
	Bio:           "bio",
	Role:          "role",
	IsStaff:       "isstaff",
	IsSuperuser:   "issuperuser",
	SecurityStamp: "securitystamp",
	LastLoginAt:   "lastloginat",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	DeletedAt:     "deletedat",

	UniqueUsername: "uq_account_username",
	UniqueEmail:    "uq_account_email",
	CheckRole:      "ck_account_role",
	CheckReserved:  "ck_account_username_reserved",
}

// Columns returns the columns read into an account entity, in scan order.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FirstName, t.LastName, t.Bio, t.Role,
		t.IsStaff, t.IsSuperuser, t.SecurityStamp, t.LastLoginAt, t.CreatedAt, t.UpdatedAt,
	}
}
