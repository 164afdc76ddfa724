package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dannybechar/allocation-tracker/core"
	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

// parseID parses a positional entity id.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}

// newEntityCmd builds the parent command for one entity kind.
func newEntityCmd(noun, plural string) *cobra.Command {
	return &cobra.Command{
		Use:   noun,
		Short: fmt.Sprintf("Add, list, update and delete %s", plural),
	}
}

// deleteCmd builds a 'delete <id>' subcommand around one store method.
func deleteCmd(noun string, remove func(id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   fmt.Sprintf("Delete a %s", noun),
		Args:    cobra.ExactArgs(1),
		PreRunE: sharedSetupWrapper,
		Run: func(_ *cobra.Command, args []string) {
			id, err := parseID(args[0])
			if err != nil {
				contract.LogFatal("Invalid argument", err)
			}
			if err := remove(id); err != nil {
				contract.LogFatal(fmt.Sprintf("Failed to delete %s", noun), err)
			}
			fmt.Printf("Deleted %s %d\n", noun, id)
		},
	}
}

// listCmd builds a 'list' subcommand; exec picks the executor from the command's flags.
func listCmd(plural string, exec func(cmd *cobra.Command) core.ExecutorFunc) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   fmt.Sprintf("List %s", plural),
		Args:    cobra.NoArgs,
		PreRunE: sharedSetupWrapper,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := exec(cmd)(rootCtx, cfg, storeManager); err != nil {
				contract.LogFatal(fmt.Sprintf("Failed to list %s", plural), err)
			}
		},
	}
}

func fixed(fn core.ExecutorFunc) func(*cobra.Command) core.ExecutorFunc {
	return func(*cobra.Command) core.ExecutorFunc { return fn }
}

// --- Employees ---

var employeeCmd = newEntityCmd("employee", "employees")

var employeeAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add an employee",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		var e schema.Employee
		if err := applyEmployeeFlags(cmd.Flags(), &e, true); err != nil {
			contract.LogFatal("Invalid argument", err)
		}
		id, err := core.AddEmployee(rootCtx, storeManager.GetEntityStore(), e)
		if err != nil {
			contract.LogFatal("Failed to add employee", err)
		}
		fmt.Printf("Created employee %d\n", id)
	},
}

var employeeUpdateCmd = &cobra.Command{
	Use:     "update <id>",
	Short:   "Update an employee; only the given flags change",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			contract.LogFatal("Invalid argument", err)
		}
		store := storeManager.GetEntityStore()
		e, err := store.GetEmployee(rootCtx, id)
		if err != nil {
			contract.LogFatal("Failed to load employee", err)
		}
		if err := applyEmployeeFlags(cmd.Flags(), &e, false); err != nil {
			contract.LogFatal("Invalid argument", err)
		}
		if err := core.UpdateEmployee(rootCtx, store, e); err != nil {
			contract.LogFatal("Failed to update employee", err)
		}
		fmt.Printf("Updated employee %d\n", id)
	},
}

// applyEmployeeFlags copies flags into e. With all set, defaults apply too;
// otherwise only flags given on the command line are copied.
func applyEmployeeFlags(flags *pflag.FlagSet, e *schema.Employee, all bool) error {
	if all || flags.Changed("name") {
		e.Name, _ = flags.GetString("name")
	}
	if all || flags.Changed("capacity") {
		e.CapacityPercent, _ = flags.GetInt("capacity")
	}
	if all || flags.Changed("vacation-days") {
		e.VacationDays, _ = flags.GetFloat64("vacation-days")
	}
	if all || flags.Changed("billable") {
		raw, _ := flags.GetString("billable")
		billable, err := contract.ParseBoolString(raw)
		if err != nil {
			return fmt.Errorf("--billable: %w", err)
		}
		e.Billable = billable
	}
	return nil
}

// --- Clients ---

var clientCmd = newEntityCmd("client", "clients")

var clientAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add a client",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		name, _ := cmd.Flags().GetString("name")
		id, err := core.AddClient(rootCtx, storeManager.GetEntityStore(), schema.Client{Name: name})
		if err != nil {
			contract.LogFatal("Failed to add client", err)
		}
		fmt.Printf("Created client %d\n", id)
	},
}

var clientUpdateCmd = &cobra.Command{
	Use:     "update <id>",
	Short:   "Rename a client",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			contract.LogFatal("Invalid argument", err)
		}
		name, _ := cmd.Flags().GetString("name")
		if err := core.UpdateClient(rootCtx, storeManager.GetEntityStore(), schema.Client{ID: id, Name: name}); err != nil {
			contract.LogFatal("Failed to update client", err)
		}
		fmt.Printf("Updated client %d\n", id)
	},
}

// --- Projects ---

var projectCmd = newEntityCmd("project", "projects")

var projectAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add a project",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		var p schema.Project
		applyProjectFlags(cmd.Flags(), &p, true)
		id, err := core.AddProject(rootCtx, storeManager.GetEntityStore(), p)
		if err != nil {
			contract.LogFatal("Failed to add project", err)
		}
		fmt.Printf("Created project %d\n", id)
	},
}

var projectUpdateCmd = &cobra.Command{
	Use:     "update <id>",
	Short:   "Update a project; only the given flags change",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			contract.LogFatal("Invalid argument", err)
		}
		store := storeManager.GetEntityStore()
		p, err := store.GetProject(rootCtx, id)
		if err != nil {
			contract.LogFatal("Failed to load project", err)
		}
		applyProjectFlags(cmd.Flags(), &p, false)
		if err := core.UpdateProject(rootCtx, store, p); err != nil {
			contract.LogFatal("Failed to update project", err)
		}
		fmt.Printf("Updated project %d\n", id)
	},
}

// applyProjectFlags copies flags into p. A client id of 0 detaches the project.
func applyProjectFlags(flags *pflag.FlagSet, p *schema.Project, all bool) {
	if all || flags.Changed("name") {
		p.Name, _ = flags.GetString("name")
	}
	if all || flags.Changed("client-id") {
		clientID, _ := flags.GetInt64("client-id")
		p.ClientID = nil
		if clientID > 0 {
			p.ClientID = &clientID
		}
	}
}

// --- Commitments ---

var commitmentCmd = newEntityCmd("commitment", "commitments")

var commitmentAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Commit part of an employee's time to a client or project",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		var c schema.Commitment
		if err := applyCommitmentFlags(cmd.Flags(), &c, true); err != nil {
			contract.LogFatal("Invalid argument", err)
		}
		id, err := core.AddCommitment(rootCtx, storeManager.GetEntityStore(), c)
		if err != nil {
			contract.LogFatal("Failed to add commitment", err)
		}
		fmt.Printf("Created commitment %d\n", id)
	},
}

var commitmentUpdateCmd = &cobra.Command{
	Use:     "update <id>",
	Short:   "Update a commitment; only the given flags change",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			contract.LogFatal("Invalid argument", err)
		}
		store := storeManager.GetEntityStore()
		c, err := store.GetCommitment(rootCtx, id)
		if err != nil {
			contract.LogFatal("Failed to load commitment", err)
		}
		if err := applyCommitmentFlags(cmd.Flags(), &c, false); err != nil {
			contract.LogFatal("Invalid argument", err)
		}
		if err := core.UpdateCommitment(rootCtx, store, c); err != nil {
			contract.LogFatal("Failed to update commitment", err)
		}
		fmt.Printf("Updated commitment %d\n", id)
	},
}

// applyCommitmentFlags copies flags into c. An empty --start or --end means unbounded.
func applyCommitmentFlags(flags *pflag.FlagSet, c *schema.Commitment, all bool) error {
	if all || flags.Changed("employee-id") {
		c.EmployeeID, _ = flags.GetInt64("employee-id")
	}
	if all || flags.Changed("target-type") {
		raw, _ := flags.GetString("target-type")
		c.TargetType = schema.TargetType(strings.ToUpper(strings.TrimSpace(raw)))
	}
	if all || flags.Changed("target-id") {
		c.TargetID, _ = flags.GetInt64("target-id")
	}
	if all || flags.Changed("percent") {
		c.Percent, _ = flags.GetInt("percent")
	}
	for _, d := range []struct {
		flag string
		dst  **time.Time
	}{{"start", &c.StartDate}, {"end", &c.EndDate}} {
		if !all && !flags.Changed(d.flag) {
			continue
		}
		raw, _ := flags.GetString(d.flag)
		parsed, err := dateutil.ParseOptionalDate(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("--%s: %w", d.flag, err)
		}
		*d.dst = parsed
	}
	return nil
}

var commitmentListCmd = listCmd("commitments", func(cmd *cobra.Command) core.ExecutorFunc {
	employeeID, _ := cmd.Flags().GetInt64("employee-id")
	if employeeID > 0 {
		return core.ListCommitmentsExecutor(&employeeID)
	}
	return core.ListCommitmentsExecutor(nil)
})

// initEntityFlags wires the entity subcommands and their local flags.
func initEntityFlags() {
	employeeCmd.AddCommand(employeeAddCmd, listCmd("employees", fixed(core.ExecuteListEmployees)), employeeUpdateCmd,
		deleteCmd("employee", func(id int64) error { return storeManager.GetEntityStore().DeleteEmployee(rootCtx, id) }))
	clientCmd.AddCommand(clientAddCmd, listCmd("clients", fixed(core.ExecuteListClients)), clientUpdateCmd,
		deleteCmd("client", func(id int64) error { return storeManager.GetEntityStore().DeleteClient(rootCtx, id) }))
	projectCmd.AddCommand(projectAddCmd, listCmd("projects", fixed(core.ExecuteListProjects)), projectUpdateCmd,
		deleteCmd("project", func(id int64) error { return storeManager.GetEntityStore().DeleteProject(rootCtx, id) }))
	commitmentCmd.AddCommand(commitmentAddCmd, commitmentListCmd, commitmentUpdateCmd,
		deleteCmd("commitment", func(id int64) error { return storeManager.GetEntityStore().DeleteCommitment(rootCtx, id) }))

	for _, c := range []*cobra.Command{employeeAddCmd, employeeUpdateCmd} {
		c.Flags().String("name", "", "Employee name")
		c.Flags().Int("capacity", 100, "Contracted capacity percentage (0-100)")
		c.Flags().Float64("vacation-days", 0, "Vacation balance in days")
		c.Flags().String("billable", "yes", "Whether the employee is billable (yes/no/true/false/1/0)")
	}
	for _, c := range []*cobra.Command{clientAddCmd, clientUpdateCmd} {
		c.Flags().String("name", "", "Client name")
	}
	for _, c := range []*cobra.Command{projectAddCmd, projectUpdateCmd} {
		c.Flags().String("name", "", "Project name")
		c.Flags().Int64("client-id", 0, "Owning client id (0 for none)")
	}
	for _, c := range []*cobra.Command{commitmentAddCmd, commitmentUpdateCmd} {
		c.Flags().Int64("employee-id", 0, "Employee id")
		c.Flags().String("target-type", string(schema.ClientTarget), "Target type: CLIENT or PROJECT")
		c.Flags().Int64("target-id", 0, "Client or project id")
		c.Flags().Int("percent", 0, "Share of the employee's time (0-100)")
		c.Flags().String("start", "", "First day as YYYY-MM-DD (empty for unbounded)")
		c.Flags().String("end", "", "Last day as YYYY-MM-DD (empty for unbounded)")
	}
	commitmentListCmd.Flags().Int64("employee-id", 0, "Only list this employee's commitments")
}
