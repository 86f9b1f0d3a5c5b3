package service

import (
	"strconv"
	"strings"
)

// CommandKind identifies a parsed user command.
type CommandKind string

const (
	CommandRequestRide   CommandKind = "REQUEST_RIDE"
	CommandViewProfile   CommandKind = "VIEW_PROFILE"
	CommandRideHistory   CommandKind = "RIDE_HISTORY"
	CommandFeedback      CommandKind = "FEEDBACK"
	CommandFeedbackUsage CommandKind = "FEEDBACK_USAGE"
	CommandHelp          CommandKind = "HELP"
)

// Command is the tagged result of parsing one inbound text. RideID, Rating
// and Comment are set only for CommandFeedback.
type Command struct {
	Kind    CommandKind
	RideID  int64
	Rating  int
	Comment string
}

// ParseCommand normalizes raw text (trim, lower-case) and matches it against
// the fixed command set. Anything unrecognized parses as CommandHelp; a
// malformed feedback submission parses as CommandFeedbackUsage, never an
// error.
func ParseCommand(raw string) Command {
	text := strings.ToLower(strings.TrimSpace(raw))

	switch text {
	case "request ride":
		return Command{Kind: CommandRequestRide}
	case "view profile":
		return Command{Kind: CommandViewProfile}
	case "ride history":
		return Command{Kind: CommandRideHistory}
	}

	if strings.HasPrefix(text, "feedback") {
		return parseFeedback(text)
	}

	return Command{Kind: CommandHelp}
}

// parseFeedback parses "feedback <ride_id> <rating> [comment...]".
func parseFeedback(text string) Command {
	parts := strings.Fields(text)
	if len(parts) < 3 {
		return Command{Kind: CommandFeedbackUsage}
	}

	rideID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Command{Kind: CommandFeedbackUsage}
	}

	rating, err := strconv.Atoi(parts[2])
	if err != nil {
		return Command{Kind: CommandFeedbackUsage}
	}

	return Command{
		Kind:    CommandFeedback,
		RideID:  rideID,
		Rating:  rating,
		Comment: strings.Join(parts[3:], " "),
	}
}
