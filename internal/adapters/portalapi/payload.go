package portalapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainsession "github.com/vidaplena/portal-session/internal/domain/session"
	"github.com/vidaplena/portal-session/internal/ports"
)

// domainProfile keeps adapter signatures readable.
type domainProfile = domainsession.ProfileData

// The portal backend has shipped two payload generations: the current
// one nests role and care-line objects, the legacy one flattens them.
// JMESPath expressions with fallbacks absorb both shapes so the rest of
// the core only ever sees ports.RawUser.
const (
	exprUser  = "user || @"
	exprToken = "token || accessToken"

	exprName     = "name || fullName || full_name"
	exprCPF      = "cpf"
	exprEmail    = "email"
	exprRoleList = "roles[].{name: role.name || name || roleName," +
		" assignment_deleted_at: deletedAt || assignmentDeletedAt," +
		" role_deleted_at: role.deletedAt || roleDeletedAt}"
	exprLineID   = "assignedLine.id || assignedLineId || assigned_line_id"
	exprCareLine = "assignedLine.careLine.name || assignedLine.name || careLine"
	exprProfile  = "profileData || profile"

	exprMessage = "message || error"

	exprDateOfBirth = "dateOfBirth || date_of_birth"
	exprBloodType   = "bloodType || blood_type"
	exprHeight      = "height"
	exprWeight      = "weight"
)

func parseAuthPayload(data any) (ports.AuthPayload, error) {
	token := stringAt(data, exprToken)
	if token == "" {
		return ports.AuthPayload{}, errors.New("auth payload missing token")
	}
	userData, _ := jmespath.Search("user", data)
	if userData == nil {
		return ports.AuthPayload{}, errors.New("auth payload missing user")
	}
	return ports.AuthPayload{Token: token, User: parseRawUser(userData)}, nil
}

// parseRawUser normalizes a user payload. Missing fields stay zero; a
// non-positive assigned line is treated as absent.
func parseRawUser(data any) ports.RawUser {
	user, _ := jmespath.Search(exprUser, data)
	if user == nil {
		return ports.RawUser{}
	}

	raw := ports.RawUser{
		ID:       stringAt(user, "id"),
		Name:     stringAt(user, exprName),
		Email:    stringAt(user, exprEmail),
		CPF:      stringAt(user, exprCPF),
		CareLine: stringAt(user, exprCareLine),
	}

	if id := intAt(user, exprLineID); id > 0 {
		raw.AssignedLineID = id
	}

	if profile, _ := jmespath.Search(exprProfile, user); profile != nil {
		raw.HasProfile = true
	}

	raw.Assignments = parseAssignments(user)
	return raw
}

func parseAssignments(user any) []domainsession.RoleAssignment {
	result, err := jmespath.Search(exprRoleList, user)
	if err != nil || result == nil {
		return nil
	}
	items, ok := result.([]any)
	if !ok {
		return nil
	}

	assignments := make([]domainsession.RoleAssignment, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		assignments = append(assignments, domainsession.RoleAssignment{
			RoleName:            asString(entry["name"]),
			AssignmentDeletedAt: parseTimestamp(entry["assignment_deleted_at"]),
			RoleDeletedAt:       parseTimestamp(entry["role_deleted_at"]),
		})
	}
	return assignments
}

func parseProfile(data any) domainProfile {
	return domainProfile{
		DateOfBirth: stringAt(data, exprDateOfBirth),
		BloodType:   stringAt(data, exprBloodType),
		Height:      stringAt(data, exprHeight),
		Weight:      stringAt(data, exprWeight),
	}
}

// serverMessage pulls the human-readable message out of an error body.
func serverMessage(raw []byte) string {
	data := decodeJSON(raw)
	if data == nil {
		return ""
	}
	return stringAt(data, exprMessage)
}

func stringAt(data any, expr string) string {
	value, err := jmespath.Search(expr, data)
	if err != nil {
		return ""
	}
	return asString(value)
}

func intAt(data any, expr string) int64 {
	value, err := jmespath.Search(expr, data)
	if err != nil {
		return 0
	}
	switch v := value.(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case string:
		n, convErr := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if convErr != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// asString coerces scalar JSON values to their string form. Numbers keep
// their shortest representation so numeric heights and weights survive.
func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// parseTimestamp turns a soft-delete marker into a *time.Time. Any
// non-empty marker counts as deleted even if the timestamp itself does
// not parse; the resolver only checks presence.
func parseTimestamp(value any) *time.Time {
	s := strings.TrimSpace(asString(value))
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	t := time.Time{}
	return &t
}
