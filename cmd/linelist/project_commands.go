package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/linelist/internal/app"
	"github.com/five82/linelist/internal/metadata"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Show or edit project details",
	}
	cmd.AddCommand(newProjectShowCommand(ctx))
	cmd.AddCommand(newProjectSetCommand(ctx))
	return cmd
}

func newProjectShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show project details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				project, err := s.Client.FetchProject(ctx)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, project)
				}
				rows := [][]string{
					{"ID", project.ID},
					{"Label", project.Label},
					{"Description", project.Description},
					{"Organism", project.Organism},
					{"Created", formatDate(project.ParsedCreatedDate())},
					{"Modified", formatDate(project.ParsedModifiedDate())},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil, shouldColorize(cmd.OutOrStdout())))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output project as JSON")
	return cmd
}

func newProjectSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Update a project attribute (" + strings.Join(metadata.EditableProjectAttributes(), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field := strings.ToLower(strings.TrimSpace(args[0]))
			if !metadata.IsEditableProjectAttribute(field) {
				return fmt.Errorf("cannot edit project attribute %q; editable: %s", args[0], strings.Join(metadata.EditableProjectAttributes(), ", "))
			}
			return ctx.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				message, err := s.Client.UpdateProjectAttribute(ctx, field, args[1])
				if err != nil {
					s.Logger.Warn("project update failed", "field", field, "error", err)
					return err
				}
				s.Logger.Info("project updated", "field", field)
				if strings.TrimSpace(message) == "" {
					message = "Updated " + metadata.FieldLabel(field)
				}
				fmt.Fprintln(cmd.OutOrStdout(), message)
				return nil
			})
		},
	}
}

func newMembersCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage project members",
	}
	cmd.AddCommand(newMembersRemoveCommand(ctx))
	return cmd
}

func newMembersRemoveCommand(ctx *commandContext) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "remove <userId>",
		Short: "Remove a member from the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := strings.TrimSpace(args[0])
			return ctx.withSession(cmd, func(ctx context.Context, s *app.Session) error {
				self := s.Config.UserID != "" && s.Config.UserID == userID
				if self && !force {
					return fmt.Errorf("refusing to remove yourself from project %s; you will lose access to it (use --force)", s.Config.ProjectID)
				}
				if self {
					warn(cmd.ErrOrStderr(), fmt.Sprintf("removing yourself from project %s", s.Config.ProjectID))
				}
				message, err := s.Client.RemoveMember(ctx, userID)
				if err != nil {
					s.Logger.Warn("member removal failed", "user_id", userID, "error", err)
					return err
				}
				s.Logger.Info("member removed", "user_id", userID, "self", self)
				if strings.TrimSpace(message) == "" {
					message = "Removed user " + userID
				}
				fmt.Fprintln(cmd.OutOrStdout(), message)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Allow removing the configured user")
	return cmd
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
