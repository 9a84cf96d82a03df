package main

import (
	"fmt"

	"newsboard/internal/db"
	"newsboard/internal/logger"
	"newsboard/internal/models"
	"newsboard/internal/server"
	"newsboard/internal/service"
	"newsboard/internal/worker"

	"github.com/spf13/cobra"
)

// withDB открывает соединение с БД на время выполнения команды.
func withDB(fn func(cmd *cobra.Command, args []string, database *db.Database) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		_, database, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer database.Close()
		return fn(cmd, args, database)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: withDB(func(cmd *cobra.Command, args []string, database *db.Database) error {
			if err := database.Migrate(cmd.Context()); err != nil {
				return err
			}
			logger.Log.Info("Migrations applied")
			return nil
		}),
	}
}

func newsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Manage news",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all news",
			Args:  cobra.NoArgs,
			RunE: withDB(func(cmd *cobra.Command, args []string, database *db.Database) error {
				news, err := service.NewNewsService(database).ListNews(cmd.Context())
				if err != nil {
					return err
				}
				return server.WriteNews(cmd.OutOrStdout(), news)
			}),
		},
		&cobra.Command{
			Use:   "add <title> <body>",
			Short: "Add a news item and print its id",
			Args:  cobra.ExactArgs(2),
			RunE: withDB(func(cmd *cobra.Command, args []string, database *db.Database) error {
				id, err := service.NewNewsService(database).AddNews(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a news item (its comments are kept)",
			Args:  cobra.ExactArgs(1),
			RunE: withDB(func(cmd *cobra.Command, args []string, database *db.Database) error {
				id, err := models.ParseID(args[0])
				if err != nil {
					return err
				}
				n, err := service.NewNewsService(database).DeleteNews(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", n)
				return nil
			}),
		},
	)
	return cmd
}

func commentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Manage comments",
	}

	var newsID string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List comments, optionally for one news item",
		Args:  cobra.NoArgs,
		RunE: withDB(func(cmd *cobra.Command, args []string, database *db.Database) error {
			svc := service.NewCommentService(database)
			var (
				comments []models.Comment
				err      error
			)
			if newsID != "" {
				id, perr := models.ParseID(newsID)
				if perr != nil {
					return perr
				}
				comments, err = svc.ListCommentsForNews(cmd.Context(), id)
			} else {
				comments, err = svc.ListComments(cmd.Context())
			}
			if err != nil {
				return err
			}
			return server.WriteComments(cmd.OutOrStdout(), comments)
		}),
	}
	listCmd.Flags().StringVar(&newsID, "news", "", "only comments of this news id")

	cmd.AddCommand(
		listCmd,
		&cobra.Command{
			Use:   "add <news-id> <body>",
			Short: "Add a comment to a news item and print its id",
			Args:  cobra.ExactArgs(2),
			RunE: withDB(func(cmd *cobra.Command, args []string, database *db.Database) error {
				id, err := models.ParseID(args[0])
				if err != nil {
					return err
				}
				commentID, err := service.NewCommentService(database).AddCommentForNews(cmd.Context(), args[1], id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), commentID)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a comment",
			Args:  cobra.ExactArgs(1),
			RunE: withDB(func(cmd *cobra.Command, args []string, database *db.Database) error {
				id, err := models.ParseID(args[0])
				if err != nil {
					return err
				}
				n, err := service.NewCommentService(database).DeleteComment(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", n)
				return nil
			}),
		},
	)
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <feed-url>...",
		Short: "Import news from RSS/Atom feeds once",
		Args:  cobra.MinimumNArgs(1),
		RunE: withDB(func(cmd *cobra.Command, args []string, database *db.Database) error {
			wrk := worker.NewWorker(service.NewNewsService(database))
			for _, url := range args {
				n, err := wrk.HandleFeed(cmd.Context(), url)
				if err != nil {
					return fmt.Errorf("import %s: %w", url, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d new\n", url, n)
			}
			return nil
		}),
	}
}
