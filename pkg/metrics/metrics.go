// Package metrics defines the Prometheus metrics for account provisioning.
//
// Metrics are registered with the default registry at package init through
// promauto; cmd/idm exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "idm"

// AccountsProvisionedTotal counts provisioning writes that committed.
// Label:
//   - operation: "create" or "update"
var AccountsProvisionedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_provisioned_total",
		Help:      "Total number of account create/update operations that committed.",
	},
	[]string{"operation"},
)

// ProvisioningErrorsTotal counts provisioning calls that returned an error.
// Labels:
//   - operation: "create", "update" or "change_password"
//   - code: the structured error code, e.g. "USER_NOT_FOUND"
var ProvisioningErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provisioning_errors_total",
		Help:      "Total number of account create, update and change_password calls that failed.",
	},
	[]string{"operation", "code"},
)

// RolesCreatedTotal counts role records created lazily by lookup-or-create,
// reported once the creating unit of work commits.
// Label:
//   - role: the role name
var RolesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roles_created_total",
		Help:      "Total number of role records created on first use.",
	},
	[]string{"role"},
)

// RoleCreateConflictsTotal counts lookup-or-create calls that lost a create race
// and fell back to the winning record.
var RoleCreateConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_create_conflicts_total",
		Help:      "Total number of concurrent role creates resolved to an existing record.",
	},
)
