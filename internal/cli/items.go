package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/imkarma/crmboard/internal/kanban"
	"github.com/imkarma/crmboard/internal/store"
	"github.com/spf13/cobra"
)

var (
	taskPriority    string
	taskDescription string
	taskStatus      string
	taskProject     string
	taskDue         string

	projectDescription string
	projectStatus      string
	projectCustomer    string

	customerEmail   string
	customerCompany string
	customerType    string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create or inspect tasks",
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create or inspect projects",
}

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Create or inspect customers",
}

func init() {
	taskCreateCmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTaskCreate,
	}
	taskCreateCmd.Flags().StringVarP(&taskPriority, "priority", "p", "medium", "Priority: high, medium, low")
	taskCreateCmd.Flags().StringVarP(&taskDescription, "desc", "d", "", "Task description")
	taskCreateCmd.Flags().StringVarP(&taskStatus, "status", "s", "", "Initial status (default todo)")
	taskCreateCmd.Flags().StringVar(&taskProject, "project", "", "Project ID")
	taskCreateCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")

	projectCreateCmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new project",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runProjectCreate,
	}
	projectCreateCmd.Flags().StringVarP(&projectDescription, "desc", "d", "", "Project description")
	projectCreateCmd.Flags().StringVarP(&projectStatus, "status", "s", "", "Initial status (default planning)")
	projectCreateCmd.Flags().StringVar(&projectCustomer, "customer", "", "Customer ID")

	customerCreateCmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new customer",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCustomerCreate,
	}
	customerCreateCmd.Flags().StringVarP(&customerEmail, "email", "e", "", "Email address")
	customerCreateCmd.Flags().StringVarP(&customerCompany, "company", "c", "", "Company")
	customerCreateCmd.Flags().StringVarP(&customerType, "type", "t", "", "Customer type (default lead); unknown types land in other")

	taskCmd.AddCommand(taskCreateCmd, listCmd(kanban.Tasks), showCmd(kanban.Tasks))
	projectCmd.AddCommand(projectCreateCmd, listCmd(kanban.Projects), showCmd(kanban.Projects))
	customerCmd.AddCommand(customerCreateCmd, listCmd(kanban.Customers), showCmd(kanban.Customers))
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	sess, err := openSession(false)
	if err != nil {
		return err
	}
	defer sess.Close()

	in := store.TaskInput{
		Title:       joinArgs(args),
		Description: taskDescription,
		Priority:    taskPriority,
		Status:      store.TaskStatus(taskStatus),
		ProjectID:   taskProject,
	}
	if taskDue != "" {
		due, err := time.Parse("2006-01-02", taskDue)
		if err != nil {
			return fmt.Errorf("invalid due date %q: %w", taskDue, err)
		}
		in.DueDate = &due
	}

	task, err := sess.store.CreateTask(in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s [%s]\n", shortID(task.ID), task.Title, task.Status)
	return nil
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	sess, err := openSession(false)
	if err != nil {
		return err
	}
	defer sess.Close()

	p, err := sess.store.CreateProject(store.ProjectInput{
		Name:        joinArgs(args),
		Description: projectDescription,
		Status:      store.ProjectStatus(projectStatus),
		CustomerID:  projectCustomer,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created project %s: %s [%s]\n", shortID(p.ID), p.Name, p.Status)
	return nil
}

func runCustomerCreate(cmd *cobra.Command, args []string) error {
	sess, err := openSession(false)
	if err != nil {
		return err
	}
	defer sess.Close()

	c, err := sess.store.CreateCustomer(store.CustomerInput{
		Name:         joinArgs(args),
		Email:        customerEmail,
		Company:      customerCompany,
		CustomerType: customerType,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created customer %s: %s [%s]\n", shortID(c.ID), c.Name, c.CustomerType)
	return nil
}

// listCmd lists a variant's items column by column, optionally one column only.
func listCmd(v kanban.Variant) *cobra.Command {
	return &cobra.Command{
		Use:   "list [column]",
		Short: fmt.Sprintf("List %s, optionally filtered by column", v.Name),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(false)
			if err != nil {
				return err
			}
			defer sess.Close()

			bv, err := loadBoard(sess.store, sess.cfg.Variant(v), sess.log)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			n := 0
			for _, col := range bv.Columns {
				if len(args) > 0 && string(col.ID) != args[0] {
					continue
				}
				for _, c := range col.Cards {
					fmt.Fprintf(out, "%-8s %-12s %s", shortID(c.ID), col.ID, c.Title)
					if c.Meta != "" {
						fmt.Fprintf(out, " [%s]", c.Meta)
					}
					fmt.Fprintln(out)
					n++
				}
			}
			if n == 0 {
				fmt.Fprintf(out, "No %s found.\n", v.Name)
			}
			return nil
		},
	}
}

// showCmd prints one item with its event history.
func showCmd(v kanban.Variant) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: fmt.Sprintf("Show %s details", v.Kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(false)
			if err != nil {
				return err
			}
			defer sess.Close()

			bv, err := loadBoard(sess.store, sess.cfg.Variant(v), sess.log)
			if err != nil {
				return err
			}
			card, _, err := bv.Find(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := printItem(out, sess.store, v.Kind, card.ID); err != nil {
				return err
			}

			events, err := sess.store.GetEvents(v.Kind, card.ID)
			if err != nil {
				return err
			}
			if len(events) > 0 {
				fmt.Fprintln(out, "\n  Events:")
				printEvents(out, events, "    ", "15:04")
			}
			return nil
		},
	}
}

func printItem(out io.Writer, s *store.Store, kind store.ItemKind, id string) error {
	switch kind {
	case store.KindTask:
		t, err := s.GetTask(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Task %s\n", t.ID)
		fmt.Fprintf(out, "  Title:    %s\n", t.Title)
		fmt.Fprintf(out, "  Status:   %s\n", t.Status)
		fmt.Fprintf(out, "  Priority: %s\n", t.Priority)
		if t.Description != "" {
			fmt.Fprintf(out, "  Desc:     %s\n", t.Description)
		}
		if t.ProjectID != "" {
			fmt.Fprintf(out, "  Project:  %s\n", t.ProjectID)
		}
		if t.DueDate != nil {
			fmt.Fprintf(out, "  Due:      %s\n", t.DueDate.Format("2006-01-02"))
		}
		fmt.Fprintf(out, "  Created:  %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "  Updated:  %s\n", t.UpdatedAt.Format("2006-01-02 15:04"))
	case store.KindProject:
		p, err := s.GetProject(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Project %s\n", p.ID)
		fmt.Fprintf(out, "  Name:     %s\n", p.Name)
		fmt.Fprintf(out, "  Status:   %s\n", p.Status)
		if p.Description != "" {
			fmt.Fprintf(out, "  Desc:     %s\n", p.Description)
		}
		if p.CustomerID != "" {
			fmt.Fprintf(out, "  Customer: %s\n", p.CustomerID)
		}
		fmt.Fprintf(out, "  Created:  %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "  Updated:  %s\n", p.UpdatedAt.Format("2006-01-02 15:04"))
	case store.KindCustomer:
		c, err := s.GetCustomer(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Customer %s\n", c.ID)
		fmt.Fprintf(out, "  Name:     %s\n", c.Name)
		fmt.Fprintf(out, "  Type:     %s\n", c.CustomerType)
		if c.Company != "" {
			fmt.Fprintf(out, "  Company:  %s\n", c.Company)
		}
		if c.Email != "" {
			fmt.Fprintf(out, "  Email:    %s\n", c.Email)
		}
		fmt.Fprintf(out, "  Created:  %s\n", c.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "  Updated:  %s\n", c.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printEvents(out io.Writer, events []store.Event, indent, layout string) {
	for _, e := range events {
		fmt.Fprintf(out, "%s%s  %-14s %s\n", indent, e.Timestamp.Local().Format(layout), e.Type, e.Content)
	}
}
