package domain

// Admin is a back-office administrator. Deleting an Admin leaves an
// EmployeeHistory snapshot behind.
type Admin struct {
	Account
}

// AdminKind describes how Admin records authenticate.
var AdminKind = PrincipalKind[*Admin]{
	Role:    RoleAdmin,
	Folder:  "admins",
	New:     func(a Account) *Admin { return &Admin{Account: a} },
	Account: func(a *Admin) *Account { return &a.Account },
	Claim: func(a *Admin) RoleClaim {
		return RoleClaim{ID: a.ID, Email: a.EmailAddress, Role: RoleAdmin}
	},
}
