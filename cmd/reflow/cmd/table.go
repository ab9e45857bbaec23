package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/go-drift/reflow/pkg/reconcile"
)

// writeMutations prints muts as a table, one row per mutation in commit
// order.
func writeMutations(w io.Writer, muts []reconcile.Mutation) {
	if len(muts) == 0 {
		fmt.Fprintln(w, "no mutations")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Kind", "Node", "Index", "Change"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	for i, m := range muts {
		kind := m.Kind.String()
		index := ""
		if m.Kind == reconcile.Placement {
			index = strconv.Itoa(m.Index)
			if m.IsMove() {
				kind = "move"
			}
		}
		table.Append([]string{strconv.Itoa(i), kind, describe(m.Node), index, m.Summary()})
	}
	placements, updates, deletions := reconcile.Counts(muts)
	table.SetFooter([]string{"", "", "", "", fmt.Sprintf("%d placed, %d updated, %d removed", placements, updates, deletions)})
	table.Render()
}

func describe(v *reconcile.VNode) string {
	if v == nil {
		return ""
	}
	if v.Kind == reconcile.KindText {
		return strconv.Quote(v.Text)
	}
	if v.Key != "" {
		return "<" + v.Tag + " key=" + v.Key + ">"
	}
	return "<" + v.Tag + ">"
}
