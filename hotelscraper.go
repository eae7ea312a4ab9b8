// Package hotelscraper collects structured hotel records (name, address,
// phone, email, geocoordinates) from a hospitality website by fetching pages
// and extracting fields from inconsistently structured markup.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, prometheus/).
package hotelscraper
