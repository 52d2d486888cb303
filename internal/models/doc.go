// Package models defines the domain types shared by the podx client.
//
// The package contains three categories of types:
//
// 1. Draft types: the in-memory preference document edited by the wizard
//   - [Draft] : topics, shows, duration range, and email settings
//   - [Patch] : a shallow partial update naming whole top-level fields
//
// 2. Wire types: request and response bodies exchanged with the agent backend
//   - [SavePreferencesRequest] : the flat record sent when the wizard submits
//   - [Status], [Episode] : dashboard data
//   - [User], [AuthSession] : identity returned by the auth endpoints
//
// 3. Catalogs: the fixed choices offered by the wizard steps ([PopularTopics], [FeaturedShows], [DurationPresets]).
//
// Drafts are values. [Draft.Apply] and [Draft.Clone] never share slice backing arrays with their inputs,
// so a consumer holding an older draft never observes a later edit.
package models
