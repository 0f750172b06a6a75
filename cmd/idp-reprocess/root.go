package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Lllllllleong/idpflow/internal/config"
	"github.com/Lllllllleong/idpflow/internal/models"
	"github.com/Lllllllleong/idpflow/internal/pipeline"
	"github.com/Lllllllleong/idpflow/internal/services"
	"github.com/Lllllllleong/idpflow/internal/store"
)

type options struct {
	bucket      string
	table       string
	concurrency int
}

// runner is the part of the pipeline the commands drive.
type runner interface {
	Run(ctx context.Context, ref pipeline.Ref) error
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "idp-reprocess",
		Short:        "Re-run document processing for existing records",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.bucket, "bucket", "", "bucket holding the uploads (default DOCUMENT_BUCKET)")
	root.PersistentFlags().StringVar(&opts.table, "table", "", "status table (default FIRESTORE_COLLECTION)")
	root.PersistentFlags().IntVar(&opts.concurrency, "concurrency", 4, "documents processed at once")

	root.AddCommand(newRunCmd(opts), newFailedCmd(opts))
	return root
}

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <documentId>...",
		Short: "Process the given documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, _, closeFn, err := build(ctx)
			if err != nil {
				return err
			}
			defer closeFn()
			return reprocess(ctx, p, args, *opts)
		},
	}
}

func newFailedCmd(opts *options) *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "failed",
		Short: "Process every document left in an error status",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := models.Status(status)
			if !st.IsError() {
				return fmt.Errorf("--status must be an error status, got %q", status)
			}
			ctx := cmd.Context()
			p, tables, closeFn, err := build(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			docs, err := tables.Table(opts.table).ListByStatus(ctx, st, limit)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(docs))
			for _, d := range docs {
				ids = append(ids, d.DocumentID)
			}
			slog.Info("Found documents to reprocess.", "status", st, "count", len(ids))
			return reprocess(ctx, p, ids, *opts)
		},
	}
	cmd.Flags().StringVar(&status, "status", string(models.StatusError), "error status to select")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum documents to select")
	return cmd
}

func build(ctx context.Context) (runner, store.Tables, func(), error) {
	backend, err := services.NewBackend(ctx, config.Load())
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := backend.Pipeline(ctx, nil)
	if err != nil {
		_ = backend.Close()
		return nil, nil, nil, err
	}
	return p, backend.Tables, func() { _ = backend.Close() }, nil
}

// reprocess runs every document independently; one failure does not stop
// the others. The returned error summarizes the failures.
func reprocess(ctx context.Context, p runner, ids []string, opts options) error {
	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.concurrency, 1))

	for _, id := range ids {
		id := id
		g.Go(func() error {
			ref := pipeline.Ref{DocumentID: id, Bucket: opts.bucket, Table: opts.table}
			if err := p.Run(gctx, ref); err != nil {
				failed.Add(1)
				slog.Error("Reprocessing failed.", "documentId", id, "error", err)
				return nil
			}
			slog.Info("Reprocessed.", "documentId", id)
			return nil
		})
	}
	_ = g.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d documents failed", n, len(ids))
	}
	return nil
}
