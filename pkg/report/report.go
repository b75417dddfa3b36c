// Package report renders organization status for human consumption.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/orgwarden/orgwarden/pkg/orgapi"
)

type Renderer struct {
	Out io.Writer
}

// Accounts prints a table of deployed accounts in the given status, sorted
// by name. Nothing is printed when no account matches.
func (r *Renderer) Accounts(accounts []orgapi.DeployedAccount, status orgapi.AccountStatus) {
	var matched []orgapi.DeployedAccount
	for _, a := range accounts {
		if a.Status == status {
			matched = append(matched, a)
		}
	}
	if len(matched) == 0 {
		return
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	r.header(fmt.Sprintf("%s Accounts in Org:", title(status)))
	w := tabwriter.NewWriter(r.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Name:\tAlias:\tId:\tEmail:")
	for _, a := range matched {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Name, a.Alias, a.Id, a.Email)
	}
	w.Flush()
}

// Invitations prints a table of invitation handshakes.
func (r *Renderer) Invitations(invites []orgapi.Invitation) {
	if len(invites) == 0 {
		return
	}
	r.header("Invited Accounts in Org:")
	w := tabwriter.NewWriter(r.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Id:\tAccount:\tState:\tExpires:")
	for _, invite := range invites {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			invite.Id, invite.TargetAccountID, invite.State, invite.Expires.Format("2006-01-02 15:04"))
	}
	w.Flush()
}

func (r *Renderer) header(text string) {
	bold := color.New(color.Bold)
	fmt.Fprintln(r.Out)
	bold.Fprintln(r.Out, text)
	fmt.Fprintln(r.Out)
}

func title(status orgapi.AccountStatus) string {
	switch status {
	case orgapi.AccountActive:
		return "Active"
	case orgapi.AccountSuspended:
		return "Suspended"
	default:
		return string(status)
	}
}
