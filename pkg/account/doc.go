// Package account provisions user accounts.
//
// AccountService creates and updates accounts inside a unit of work
// (TxManager), resolving roles through the role hierarchy and hashing the
// initial credential with a login.PasswordHasher.
//
//	txManager, err := account.NewTxManager("file", account.RepositoryConfig{DataDir: "./data"})
//	hasher, err := login.NewMultiVersionHasher(login.PasswordV2)
//	svc := account.NewAccountService(txManager, hasher)
//
//	created, err := svc.CreateAccount(ctx, account.Account{
//		Username: "jdoe",
//		Email:    "jdoe@example.com",
//		Roles:    []role.Role{{Name: role.Lecturer}},
//	})
//	// created.Roles: ROLE_LECTURER, ROLE_STUDENT
//
// A new account's credential is the hash of its username, so the user can
// sign in once with the username and should change it with ChangePassword.
//
// Stores: "memory" and "file" serialize units of work under a mutex and undo
// a failed unit of work from a journal; "postgres" runs each unit of work in
// one transaction.
package account
