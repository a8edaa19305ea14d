package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/m-mizutani/cadport/pkg/domain/model"
)

var (
	okLabel   = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	warnLabel = color.New(color.FgYellow).SprintFunc()
)

func printOutcome(w io.Writer, success bool, message string) {
	if success {
		fmt.Fprintf(w, "%s %s\n", okLabel("OK"), message)
		return
	}
	fmt.Fprintf(w, "%s %s\n", failLabel("FAILED"), message)
}

func printLoginHint(w io.Writer) {
	fmt.Fprintln(w, warnLabel("Run `cadport login` to authenticate with the portal."))
}

func renderTable(w io.Writer, header table.Row, rows []table.Row) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AlignHeader: text.AlignLeft},
	})
	tw.Render()
}

func renderSearch(w io.Writer, resp *model.SearchResponse) {
	rows := make([]table.Row, 0, len(resp.Results))
	for _, r := range resp.Results {
		rows = append(rows, table.Row{r.PartNumber, r.Manufacturer, r.Package, r.Description})
	}
	renderTable(w, table.Row{"Part Number", "Manufacturer", "Package", "Description"}, rows)
	if resp.Message != "" {
		fmt.Fprintln(w, warnLabel(resp.Message))
	}
}

func renderAcquisition(w io.Writer, result *model.AcquisitionResult) {
	if !result.Success {
		printOutcome(w, false, fmt.Sprintf("%s: %s", result.Error, result.Message))
		if result.RequiresLogin {
			printLoginHint(w)
		}
		return
	}

	printOutcome(w, true, result.Message)
	fmt.Fprintf(w, "Archive: %s\n", result.Path)
	if len(result.ExtractedFiles) == 0 {
		return
	}

	rows := make([]table.Row, 0, len(result.ExtractedFiles))
	for _, f := range result.ExtractedFiles {
		rows = append(rows, table.Row{f.Role, f.Name, f.Path})
	}
	renderTable(w, table.Row{"Type", "File", "Path"}, rows)
}

func renderAuthStatus(w io.Writer, status *model.AuthStatus) {
	label := okLabel(string(status.State))
	if !status.Authenticated {
		label = failLabel(string(status.State))
	} else if status.State == model.AuthStateAssumed {
		label = warnLabel(string(status.State))
	}
	fmt.Fprintf(w, "%s %s\n", label, status.Message)
}
