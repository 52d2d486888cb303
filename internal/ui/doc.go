// Package ui implements the interactive terminal client using bubbletea's Elm architecture.
//
// The TUI moves between five views:
//  1. [LoadingView] : resolve the stored session on startup
//  2. [LoginView] : start the Spotify login, showing any login error indicator
//  3. [CallbackView] : wait for the browser redirect to reach the local listener
//  4. [WizardView] : the four preference steps, with a live summary and progress bar
//  5. [DashboardView] : agent status, preferences, and recent episodes
//
// Every transition goes through the route guard in internal/routes, so the view shown always
// matches what the session allows.
//
// Asynchronous work returns a [Msg] tagged with the view generation it was started in. Changing view
// bumps the generation, and [Model.Update] drops messages from an older one. The show search adds its
// own query generation on top, so a slow response for an old query never replaces newer results.
//
// Keyboard navigation uses vim-style bindings with contextual help displayed via charmbracelet/bubbles/help.
package ui
