// Package services contains the media service adapter the bot depends on.
//
// [MediaService] is the contract; [PlexService] is the production
// implementation talking to plex.tv for sign-in and to a Plex Media Server
// for playback state and search. The bot treats the adapter as an external
// collaborator: it never constructs media semantics itself and distinguishes
// failures only through the shared.ErrAuth / shared.ErrService sentinels.
package services
