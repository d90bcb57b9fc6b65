// Package ui contains the Bubble Tea program that drives a Hipparchia server
// from the terminal. The Model type focuses on message orchestration, while
// dedicated helpers own navigation, input, jobs, the results panel, and
// option synchronisation.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - While a form is open, key presses go to it; everything else is routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function (navigation for key presses, jobs.go for job completion,
//     options.go for option edits, and so on).
//   - Navigation helpers (navigation.go) manage the stack of menu levels and
//     cursor movement. Filter helpers (input.go) keep text entry out of the
//     event loop.
//
// State ownership:
//   - Menu level state lives in internal/ui/state.Level.
//   - Selections and job history live in internal/state. The option controls
//     live in a session.Registry and are only touched on the UI goroutine; a
//     tea.Cmd performs the network round trip and hands the result back as a
//     message.
//   - Menu loaders and actions receive a menu.Context snapshot built on the
//     UI goroutine and run through the internal/ui/command bus.
//
// Jobs and results:
//   - A menu.JobRequest starts a job on the jobs.Dispatcher; a tea.Cmd waits for
//     it and the payload is rendered into the results panel. Progress lines
//     arrive through a ProgressFeed.
//   - The results panel (results.go) shows one pane at a time, lists the pane
//     links, and drives the passage browser.
//
// Backend interactions:
//   - A backend.Watcher polls the option mapping and the selection summary;
//     applyBackendEvent hands each result to the data dispatcher and
//     refreshes the levels that display it.
package ui
