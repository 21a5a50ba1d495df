// Package app is the composition root for timewatch.
//
// # Overview
//
// Run wires configuration, the history store, the scheduler, the timeline
// and the UI together, then blocks until the user quits, the context is
// cancelled, or the scheduler fails.
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config.toml, apply flags
//	       ├─────> logging.Setup()      File logging with --debug
//	       ├─────> prefs.Load()         Theme, diff mode, fold, title
//	       ├─────> openStore()          Memory, --save, --load or auto-save
//	       ├─────> runtimeConfig()      Record or restore interval/command
//	       ├─────> Timeline.Replay()    Index stored records
//	       ├─────> runner.Run()         Scheduler goroutine (not with --load)
//	       ├─────> StartPump()          Events -> Timeline -> UI
//	       └─────> ui.Run()             Start TUI (blocks)
//
// # Stores
//
//   - --load FILE opens an existing SQLite history read-only; no command
//     runs and the UI starts in time machine mode.
//   - --save FILE writes a fresh SQLite history to FILE.
//   - --disable_auto_save keeps history in memory.
//   - Otherwise history is auto-saved to a new file under the XDG data
//     directory and the path is printed on exit.
//
// # Shutdown
//
// The scheduler, the pump and the UI share one cancellable context. When
// the UI exits the context is cancelled and Run waits for the scheduler to
// return. When the scheduler fails its event channel is closed, which
// closes the UI's channel and quits the program; the scheduler error is
// then returned from Run.
package app
