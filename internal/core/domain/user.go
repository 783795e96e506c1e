package domain

// User is a customer account.
type User struct {
	Account
}

// UserKind describes how User records authenticate.
var UserKind = PrincipalKind[*User]{
	Role:    RoleUser,
	Folder:  "users",
	New:     func(a Account) *User { return &User{Account: a} },
	Account: func(u *User) *Account { return &u.Account },
	Claim: func(u *User) RoleClaim {
		return RoleClaim{ID: u.ID, Email: u.EmailAddress, Role: RoleUser}
	},
}
