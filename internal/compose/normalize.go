package compose

import (
	"fmt"
	"strconv"
	"strings"

	"matchday/internal/pkg/errors"
)

// Normalize validates raw request fields against the schema of the given
// composition kind and returns the props ready to hand to the renderer.
func Normalize(kind Kind, raw map[string]any) (Props, error) {
	if raw == nil {
		raw = map[string]any{}
	}

	switch kind {
	case KindGoal:
		return normalizeGoal(raw)
	case KindFormation:
		return normalizeFormation(raw)
	case KindFinalResult:
		return normalizeFinalResult(raw)
	case KindLineup:
		return normalizeLineup(raw)
	default:
		return nil, errors.Validationf("unknown composition kind: %q", kind)
	}
}

func normalizeGoal(raw map[string]any) (Props, error) {
	var missing []string

	playerName := trimmedString(raw["playerName"])
	if playerName == "" {
		missing = append(missing, "playerName")
	}

	minute, ok := asNonNegativeInt(raw["minuteGoal"])
	if !ok {
		missing = append(missing, "minuteGoal")
	}

	if len(missing) > 0 {
		return nil, errors.ValidationFields("goal request is missing required fields", missing)
	}

	props := copyProps(raw)
	props["playerName"] = playerName
	// The minute travels as an integer string and must survive verbatim
	// into the renderer input.
	props["minuteGoal"] = strconv.Itoa(minute)
	return props, nil
}

func normalizeFormation(raw map[string]any) (Props, error) {
	var missing []string

	gk, ok := raw["goalkeeper"].(map[string]any)
	if !ok || trimmedString(gk["name"]) == "" || trimmedString(gk["image"]) == "" {
		missing = append(missing, "goalkeeper")
	}

	lines := []string{"defenders", "midfielders", "attackingMidfielders", "forwards"}
	for _, line := range lines {
		entries, ok := raw[line].([]any)
		if !ok {
			missing = append(missing, line)
			continue
		}
		for i, entry := range entries {
			if entry == nil {
				continue // unfilled slot, rendered as absent
			}
			p, ok := entry.(map[string]any)
			if !ok || trimmedString(p["name"]) == "" {
				missing = append(missing, fmt.Sprintf("%s[%d]", line, i))
			}
		}
	}

	if len(missing) > 0 {
		return nil, errors.ValidationFields("formation request is missing required fields", missing)
	}

	return copyProps(raw), nil
}

func normalizeFinalResult(raw map[string]any) (Props, error) {
	var missing []string

	for _, team := range []string{"teamA", "teamB"} {
		t, ok := raw[team].(map[string]any)
		if !ok || trimmedString(t["name"]) == "" {
			missing = append(missing, team)
		}
	}

	scoreA, okA := asNonNegativeInt(raw["scoreA"])
	if !okA {
		missing = append(missing, "scoreA")
	}
	scoreB, okB := asNonNegativeInt(raw["scoreB"])
	if !okB {
		missing = append(missing, "scoreB")
	}

	scorersRaw, ok := raw["scorers"].([]any)
	if !ok {
		missing = append(missing, "scorers")
	}

	if len(missing) > 0 {
		return nil, errors.ValidationFields("final-result request is missing required fields", missing)
	}

	scorers := make([]string, 0, len(scorersRaw))
	for i, s := range scorersRaw {
		name := trimmedString(s)
		if name == "" {
			return nil, errors.ValidationField(fmt.Sprintf("scorers[%d]", i), "scorer name must be a non-empty string")
		}
		scorers = append(scorers, name)
	}

	props := copyProps(raw)
	props["scoreA"] = scoreA
	props["scoreB"] = scoreB
	props["scorers"] = scorers
	props["casalpoglioIsHome"] = IsTruthy(raw["casalpoglioIsHome"])
	props["casalpoglioIsAway"] = IsTruthy(raw["casalpoglioIsAway"])
	return props, nil
}

func normalizeLineup(raw map[string]any) (Props, error) {
	opponent := trimmedString(raw["opponentTeam"])

	playersRaw, ok := raw["players"].([]any)
	if !ok {
		if opponent == "" {
			return nil, errors.ValidationFields("lineup request is missing required fields", []string{"players", "opponentTeam"})
		}
		return nil, errors.ValidationFields("lineup request is missing required fields", []string{"players"})
	}
	if len(playersRaw) != LineupSize {
		return nil, errors.Validationf("lineup requires exactly %d players, got %d", LineupSize, len(playersRaw))
	}
	if opponent == "" {
		return nil, errors.ValidationFields("lineup request is missing required fields", []string{"opponentTeam"})
	}

	players := make([]LineupPlayer, 0, LineupSize)
	for i, entry := range playersRaw {
		p, ok := entry.(map[string]any)
		if !ok {
			return nil, errors.ValidationField(fmt.Sprintf("players[%d]", i), "player entry must be an object")
		}

		name := trimmedString(p["playerName"])
		if name == "" {
			return nil, errors.ValidationField(fmt.Sprintf("players[%d].playerName", i), "player name must be non-empty")
		}

		number, ok := asInt(p["number"])
		if !ok {
			return nil, errors.ValidationField(fmt.Sprintf("players[%d].number", i), "shirt number must be numeric")
		}
		players = append(players, LineupPlayer{
			Number:     clampShirtNumber(number),
			PlayerName: name,
			IsCaptain:  IsTruthy(p["isCaptain"]),
		})
	}

	return Props{
		"players":      players,
		"opponentTeam": opponent,
	}, nil
}

func clampShirtNumber(n int) int {
	if n < MinShirtNumber {
		return MinShirtNumber
	}
	if n > MaxShirtNumber {
		return MaxShirtNumber
	}
	return n
}

// IsTruthy evaluates whether a loosely typed flag should count as true.
func IsTruthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t == 1
	case int:
		return t == 1
	case int64:
		return t == 1
	case string:
		s := strings.TrimSpace(strings.ToLower(t))
		return s == "1" || s == "true" || s == "yes" || s == "on"
	default:
		return false
	}
}

func trimmedString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// asInt accepts the numeric shapes JSON decoding produces, plus integer
// strings coming from form inputs.
func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func asNonNegativeInt(v any) (int, bool) {
	n, ok := asInt(v)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

func copyProps(raw map[string]any) Props {
	props := make(Props, len(raw))
	for k, v := range raw {
		props[k] = v
	}
	return props
}
