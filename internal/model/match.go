package model

import "time"

// Match represents a scheduled football match hosted in a stadium.
// Linesmen is stored as a JSON array in the database and must contain
// at least two entries.  Home and away teams come from the Teams
// enumeration and must differ.
//
// Fields:
//  ID        – UUID primary key.
//  HomeTeam  – home club name (lower-cased enumeration value).
//  AwayTeam  – away club name, distinct from HomeTeam.
//  Date      – kickoff time in UTC; must be in the future at creation.
//  Referee   – name of the referee.
//  Linesmen  – names of the linesmen (two or more).
//  StadiumID – venue foreign key.
//  Venue     – the hosting stadium, populated on reads that join stadiums.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Match struct {
	ID        string    // matches.id
	HomeTeam  string    // matches.home_team
	AwayTeam  string    // matches.away_team
	Date      time.Time // matches.date
	Referee   string    // matches.referee
	Linesmen  []string  // matches.linesmen (JSON array)
	StadiumID string    // matches.stadium_id
	Venue     *Stadium  // joined stadium row (nil when not loaded)
	CreatedAt time.Time // matches.created_at
	UpdatedAt time.Time // matches.updated_at
}
