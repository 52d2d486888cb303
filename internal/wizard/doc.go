// Package wizard implements the preference onboarding flow.
//
// A [Wizard] is a state machine over four ordered steps (topics, shows, duration, notifications) and a
// [models.Draft]. Forward navigation is gated per step by [CanProceed]; going back is never blocked.
// Draft edits arrive as [models.Patch] values through [Wizard.Update] and may happen at any time.
//
// # Step Editors
//
// Each step has an editor built from a draft snapshot and an [OnChange] callback:
//   - [TopicsEditor] : toggle popular topics, add and remove custom topics
//   - [ShowsEditor] : add and remove shows; search state lives in [ShowSearch]
//   - [DurationEditor] : presets and clamped custom bounds
//   - [NotificationsEditor] : email toggle, address, and digest kinds
//
// Editors never mutate the draft they were built from; every edit is a patch passed to OnChange.
// Rebuild the editor from [Wizard.Draft] after each edit. Transient input such as [TopicInput] and
// [ShowSearch] is never part of the draft and is discarded when the step changes.
//
// # Submission
//
// [Wizard.Submit] sends the whole draft as one [models.SavePreferencesRequest]. A second call while the first
// is in flight returns [shared.ErrSubmitInFlight] without sending anything. On failure the draft and step are
// left as they were so the user can retry.
package wizard
