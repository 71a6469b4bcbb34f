// Package retention prunes old evidence records.
//
// Pruning runs in two phases: records older than RetentionDays are deleted,
// then the oldest records beyond MaxRecords are deleted. A Scheduler runs
// the pruner on a cron expression via robfig/cron.
//
// # Basic Usage
//
//	pruner := retention.NewPruner(store, &retention.Config{
//	    RetentionDays: 30,
//	    PruneSchedule: "0 3 * * *", // Daily at 3 AM
//	})
//	if err := pruner.Start(ctx); err != nil {
//	    return err
//	}
//	defer pruner.Stop()
package retention
