// Package models defines domain value types shared across the plexgram bot.
//
// The package contains two categories of types:
//
// 1. Adapter values: immutable records produced by the media service
//   - [TrackInfo] : a single media item with stream URL and duration
//   - [TrackKind] : track / artist / other classification
//
// 2. Conversation values: per-user and per-chat bot state
//   - [Session] : persisted credential for an authenticated user
//   - [ConversationState] : per-chat sign-in dialog progress
//   - [Stage] : the dialog step enum
//
// All types here are plain data. Persistence lives in the store package and
// behavior lives in the bot package; models never import either.
package models
