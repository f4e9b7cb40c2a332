package bootstrap

import (
	"fmt"
	"io"
	"strings"
)

// PrintBootstrapResult writes a summary of a freshly created admin account
func PrintBootstrapResult(w io.Writer, result *AdminBootstrapResult) {
	if result == nil || !result.UserCreated {
		return
	}

	border := strings.Repeat("=", 80)
	fmt.Fprintf(w, "\n%s\nADMIN BOOTSTRAP COMPLETED\n%s\n", border, border)
	fmt.Fprintf(w, "  Username:  %s\n", result.Account.Username)
	fmt.Fprintf(w, "  Email:     %s\n", result.Account.Email)
	fmt.Fprintf(w, "  ID:        %s\n", result.Account.ID)
	fmt.Fprintf(w, "  Roles:     %s\n", strings.Join(roleNames(result), ", "))
	fmt.Fprintln(w, "\n  The initial password is the username. Change it after the first login.")
	fmt.Fprintf(w, "%s\n\n", border)
}

func roleNames(result *AdminBootstrapResult) []string {
	names := make([]string, len(result.Account.Roles))
	for i, r := range result.Account.Roles {
		names[i] = r.Name.String()
	}
	return names
}
