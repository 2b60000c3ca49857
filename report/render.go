package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// RenderSummary formats a refactor plan as a colorized terminal summary.
// The embedding process decides where the string goes; the engine never
// prints.
func RenderSummary(plan *RefactorPlan) string {
	var sb strings.Builder

	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	compat := plan.Compatibility
	title := "refactor plan"
	if compat != nil && compat.Contract != "" {
		title = "refactor plan for " + compat.Contract
	}
	sb.WriteString(bold(title) + "\n")
	if compat != nil {
		sb.WriteString(dim(fmt.Sprintf("run %s · engine %s\n", compat.RunID, compat.EngineVersion)))
	}
	sb.WriteString("\n")

	sb.WriteString(bold("facets") + "\n")
	for i := range plan.Facets {
		f := &plan.Facets[i]
		sb.WriteString(fmt.Sprintf("  %-24s %-8s %6d bytes  %d functions  %s\n",
			f.Name, f.Category, f.EstimatedSize, len(f.Members), dim(string(f.Tier))))
	}
	sb.WriteString("\n")

	if compat != nil {
		sb.WriteString(bold("compatibility") + "\n")
		writeDimension(&sb, "size", compat.Size)
		writeDimension(&sb, "storage", compat.Storage)
		writeDimension(&sb, "selectors", compat.SelectorCollision)
		writeDimension(&sb, "diamond", compat.Diamond)
		writeDimension(&sb, "upgrade path", compat.UpgradePath)
		sb.WriteString(fmt.Sprintf("  gas score %d/100, %s deployment\n\n",
			compat.GasScore, compat.Strategy))
	}

	if len(plan.Warnings) > 0 {
		sb.WriteString(bold("warnings") + "\n")
		for _, w := range plan.Warnings {
			sb.WriteString("  " + color.YellowString(w) + "\n")
		}
		sb.WriteString("\n")
	}

	if plan.DeploymentPlan != nil {
		sb.WriteString(bold("deployment") + "\n")
		for _, phase := range plan.DeploymentPlan.Phases {
			deps := ""
			if len(phase.DependsOn) > 0 {
				deps = dim(" after " + strings.Join(phase.DependsOn, ", "))
			}
			sb.WriteString(fmt.Sprintf("  %-12s %9d gas%s\n", phase.Name, phase.Gas, deps))
		}
		sb.WriteString(fmt.Sprintf("  total %d gas over ~%s\n",
			plan.DeploymentPlan.TotalGas, plan.DeploymentPlan.EstimatedTime))
	}

	return sb.String()
}

func writeDimension(sb *strings.Builder, name string, d Dimension) {
	verdict := color.GreenString("pass")
	if !d.Passed {
		verdict = color.RedString("fail")
	}
	sb.WriteString(fmt.Sprintf("  %-14s %s\n", name, verdict))
	for _, v := range d.Violations {
		sb.WriteString("    " + color.RedString(v) + "\n")
	}
}
