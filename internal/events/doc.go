// Package events collects real-world happenings from external collaborators
// (weather API, IMAP inbox, camera and thermostat commands) as narrated
// event strings.
package events
