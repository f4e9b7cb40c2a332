// Package role provides the role hierarchy and role records for simple-account.
//
// Roles form a fixed seniority chain, most senior first:
//
//	ROLE_ADMIN -> ROLE_LECTURER -> ROLE_STUDENT
//
// Holding a tier implies holding every tier beneath it. Close computes the
// closed set for a request without touching storage:
//
//	role.Close(nil)                            // [ROLE_STUDENT]
//	role.Close([]role.Name{role.Lecturer})     // [ROLE_LECTURER ROLE_STUDENT]
//	role.Close([]role.Name{role.Admin})        // [ROLE_ADMIN ROLE_LECTURER ROLE_STUDENT]
//
// RoleService maps names onto persisted records with lookup-or-create:
//
//	svc := role.NewRoleService(role.NewInMemoryRoleRepository())
//	roles, err := svc.Resolve(ctx, []role.Name{role.Admin})
//
// Repositories must reject a duplicate name with ErrRoleExists; FindOrCreate
// treats that as a lost race and returns the existing record, so concurrent
// callers never see two records with the same name.
//
// # Related Packages
//
//   - pkg/account - provisioning built on Resolve
//   - pkg/identity - authorities derived from role names
package role
