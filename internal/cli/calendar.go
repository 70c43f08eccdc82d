package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/bizlytic/pkg/client"
)

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Manage calendar events",
	}

	cmd.AddCommand(newCalendarListCmd())
	cmd.AddCommand(newCalendarUpcomingCmd())
	cmd.AddCommand(newCalendarTodayCmd())
	cmd.AddCommand(newCalendarAddCmd())
	cmd.AddCommand(newCalendarDeleteCmd())

	return cmd
}

func printEvents(events []client.Event) error {
	if getOutputFormat() != "table" {
		return printOutput(events)
	}

	t := NewTable("ID", "START", "END", "TITLE", "TYPE", "PRIORITY")
	for _, e := range events {
		layout := "2006-01-02 15:04"
		if e.IsAllDay {
			layout = "2006-01-02"
		}
		t.AddRow(
			e.ID,
			e.StartDate.Local().Format(layout),
			e.EndDate.Local().Format(layout),
			truncate(e.Title, 30),
			e.Type,
			formatPriority(e.Priority),
		)
	}
	t.Render()
	return nil
}

func newCalendarListCmd() *cobra.Command {
	var opts client.EventListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := apiClient.Calendar().List(context.Background(), &opts)
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}
			return printEvents(events)
		},
	}

	cmd.Flags().StringVar(&opts.StartDate, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.EndDate, "to", "", "end date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Type, "type", "", "filter by type (meeting, task, reminder, other)")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "filter by priority (low, medium, high)")

	return cmd
}

func newCalendarUpcomingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upcoming",
		Short: "Show the next events",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := apiClient.Calendar().Upcoming(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get upcoming events: %w", err)
			}
			return printEvents(events)
		},
	}
}

func newCalendarTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's events",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := apiClient.Calendar().Today(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get today's events: %w", err)
			}
			return printEvents(events)
		},
	}
}

func newCalendarAddCmd() *cobra.Command {
	var req client.CreateEventRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := apiClient.Calendar().Create(context.Background(), req)
			if err != nil {
				return fmt.Errorf("failed to create event: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(e)
			}
			fmt.Printf("Scheduled %s (%s)\n", e.Title, e.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "title")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "start (ISO 8601)")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "end (ISO 8601)")
	cmd.Flags().StringVar(&req.Type, "type", "", "type (meeting, task, reminder, other)")
	cmd.Flags().StringVar(&req.Priority, "priority", "", "priority (low, medium, high)")
	cmd.Flags().BoolVar(&req.IsAllDay, "all-day", false, "all-day event")
	cmd.Flags().StringVar(&req.Location, "location", "", "location")
	cmd.Flags().StringSliceVar(&req.Attendees, "attendee", nil, "attendee (repeatable)")
	cmd.Flags().StringVar(&req.Description, "description", "", "description")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newCalendarDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Calendar().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete event: %w", err)
			}
			fmt.Printf("Deleted event %s\n", args[0])
			return nil
		},
	}
}
