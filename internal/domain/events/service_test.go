package events

import (
	"context"
	"testing"

	"github.com/campus-events/server/internal/audit"
	"github.com/campus-events/server/internal/domain/ids"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return NewService(repo, audit.NewLogger()), repo
}

func validInput() CreateInput {
	return CreateInput{
		Title:       "Robotics Workshop",
		Description: "Hands-on introduction to robotics",
		Category:    CategoryTech,
		Date:        "2026-09-15",
		Time:        "14:00",
		Venue:       "Main Auditorium",
		Question: &QuestionInput{
			Text:    "What color is the registration desk?",
			Options: []string{"Red", "Blue", "Green"},
			Answer:  "Blue",
		},
	}
}

func createApprovedEvent(t *testing.T, svc *Service, input CreateInput) *Event {
	t.Helper()
	ctx := context.Background()

	created, err := svc.Create(ctx, input, "club-1")
	require.NoError(t, err)

	approved, err := svc.SetStatus(ctx, created.ULID, StatusApproved, "admin-1")
	require.NoError(t, err)
	return approved
}

func TestCreateMintsIdentifiersOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, validInput(), "club-1")
	require.NoError(t, err)
	require.Equal(t, StatusPending, event.Status)
	require.NoError(t, ids.ValidateULID(event.ULID))
	require.NoError(t, ids.ValidateULID(event.QRCodeID))
	require.NotEqual(t, event.ULID, event.QRCodeID)
	require.Equal(t, "club-1", event.CreatedBy)

	// QR token survives status transitions unchanged
	updated, err := svc.SetStatus(ctx, event.ULID, StatusApproved, "admin-1")
	require.NoError(t, err)
	require.Equal(t, event.QRCodeID, updated.QRCodeID)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)

	input := validInput()
	input.Category = "Gaming"

	_, err := svc.Create(context.Background(), input, "club-1")
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "category", ve.Field)
}

func TestCreateDefaultsCategoryToOther(t *testing.T) {
	svc, _ := newTestService(t)

	input := validInput()
	input.Category = ""

	event, err := svc.Create(context.Background(), input, "club-1")
	require.NoError(t, err)
	require.Equal(t, CategoryOther, event.Category)
}

func TestSetStatusValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, validInput(), "club-1")
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, event.ULID, "cancelled", "admin-1")
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "status", ve.Field)

	// event unchanged after the rejected transition
	got, err := svc.Get(ctx, event.ULID)
	require.NoError(t, err)
	require.Equal(t, StatusPending, got.Status)

	_, err = svc.SetStatus(ctx, "01HQZX3Y4K6F7G8H9J0K1M2N3P", StatusApproved, "admin-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatusAllowsRevert(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	event := createApprovedEvent(t, svc, validInput())

	reverted, err := svc.SetStatus(ctx, event.ULID, StatusPending, "admin-1")
	require.NoError(t, err)
	require.Equal(t, StatusPending, reverted.Status)
}

func TestRegisterHappyPath(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-1", "Priya Sharma", "priya@campus.edu")
	ctx := context.Background()

	event := createApprovedEvent(t, svc, validInput())

	updated, err := svc.Register(ctx, event.ULID, "student-1", "")
	require.NoError(t, err)
	require.Len(t, updated.Attendees, 1)
	require.Equal(t, "student-1", updated.Attendees[0].UserID)
	require.False(t, updated.Attendees[0].IsAttended)
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-1", "Priya Sharma", "priya@campus.edu")
	ctx := context.Background()

	event := createApprovedEvent(t, svc, validInput())

	_, err := svc.Register(ctx, event.ULID, "student-1", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, event.ULID, "student-1", "")
	require.ErrorIs(t, err, ErrAlreadyRegistered)

	// exactly one attendee record
	got, err := svc.Get(ctx, event.ULID)
	require.NoError(t, err)
	require.Len(t, got.Attendees, 1)
}

func TestRegisterRequiresApprovedStatus(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-1", "Priya Sharma", "priya@campus.edu")
	ctx := context.Background()

	pending, err := svc.Create(ctx, validInput(), "club-1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, pending.ULID, "student-1", "")
	require.ErrorIs(t, err, ErrNotApproved)

	_, err = svc.SetStatus(ctx, pending.ULID, StatusRejected, "admin-1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, pending.ULID, "student-1", "")
	require.ErrorIs(t, err, ErrNotApproved)

	_, err = svc.Register(ctx, "01HQZX3Y4K6F7G8H9J0K1M2N3P", "student-1", "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterCapturesCollegeOnlyForInterCollege(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-1", "Priya Sharma", "priya@campus.edu")
	ctx := context.Background()

	tech := createApprovedEvent(t, svc, validInput())
	updated, err := svc.Register(ctx, tech.ULID, "student-1", "Northfield College")
	require.NoError(t, err)
	require.Empty(t, updated.Attendees[0].RegisteredCollege)

	input := validInput()
	input.Title = "Inter-College Hackathon"
	input.Category = CategoryInterCollege
	inter := createApprovedEvent(t, svc, input)

	updated, err = svc.Register(ctx, inter.ULID, "student-1", "Northfield College")
	require.NoError(t, err)
	require.Equal(t, "Northfield College", updated.Attendees[0].RegisteredCollege)
}

func TestCheckInHappyPath(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-1", "Priya Sharma", "priya@campus.edu")
	ctx := context.Background()

	event := createApprovedEvent(t, svc, validInput())
	_, err := svc.Register(ctx, event.ULID, "student-1", "")
	require.NoError(t, err)

	// case-insensitive identity and answer matching
	updated, err := svc.CheckIn(ctx, event.QRCodeID, "PRIYA@campus.edu", "priya sharma", "blue")
	require.NoError(t, err)
	require.True(t, updated.Attendees[0].IsAttended)
	require.NotNil(t, updated.Attendees[0].AttendedAt)
}

func TestCheckInRepeatConflicts(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-1", "Priya Sharma", "priya@campus.edu")
	ctx := context.Background()

	event := createApprovedEvent(t, svc, validInput())
	_, err := svc.Register(ctx, event.ULID, "student-1", "")
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, event.QRCodeID, "priya@campus.edu", "Priya Sharma", "Blue")
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, event.QRCodeID, "priya@campus.edu", "Priya Sharma", "Blue")
	require.ErrorIs(t, err, ErrAlreadyAttended)
}

func TestCheckInWrongAnswerLeavesFlagUnset(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-1", "Priya Sharma", "priya@campus.edu")
	ctx := context.Background()

	event := createApprovedEvent(t, svc, validInput())
	_, err := svc.Register(ctx, event.ULID, "student-1", "")
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, event.QRCodeID, "priya@campus.edu", "Priya Sharma", "Red")
	require.ErrorIs(t, err, ErrWrongAnswer)

	got, err := svc.Get(ctx, event.ULID)
	require.NoError(t, err)
	require.False(t, got.Attendees[0].IsAttended)
}

func TestCheckInUnknownRegistrant(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-1", "Priya Sharma", "priya@campus.edu")
	ctx := context.Background()

	event := createApprovedEvent(t, svc, validInput())
	_, err := svc.Register(ctx, event.ULID, "student-1", "")
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, event.QRCodeID, "someone@campus.edu", "Someone Else", "Blue")
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestCheckInUnapprovedEventLooksAbsent(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-1", "Priya Sharma", "priya@campus.edu")
	ctx := context.Background()

	event := createApprovedEvent(t, svc, validInput())
	_, err := svc.Register(ctx, event.ULID, "student-1", "")
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, event.ULID, StatusPending, "admin-1")
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, event.QRCodeID, "priya@campus.edu", "Priya Sharma", "Blue")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCheckInWithoutQuestion(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-1", "Priya Sharma", "priya@campus.edu")
	ctx := context.Background()

	input := validInput()
	input.Question = nil
	event := createApprovedEvent(t, svc, input)
	_, err := svc.Register(ctx, event.ULID, "student-1", "")
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, event.QRCodeID, "priya@campus.edu", "Priya Sharma", "Blue")
	require.ErrorIs(t, err, ErrNoQuestion)
}

func TestMarkAttendanceManualOverride(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-1", "Priya Sharma", "priya@campus.edu")
	ctx := context.Background()

	event := createApprovedEvent(t, svc, validInput())
	_, err := svc.Register(ctx, event.ULID, "student-1", "")
	require.NoError(t, err)

	updated, err := svc.MarkAttendance(ctx, event.ULID, "student-1", "club-1")
	require.NoError(t, err)
	require.True(t, updated.Attendees[0].IsAttended)

	_, err = svc.MarkAttendance(ctx, event.ULID, "student-1", "club-1")
	require.ErrorIs(t, err, ErrAlreadyAttended)

	_, err = svc.MarkAttendance(ctx, event.ULID, "student-2", "club-1")
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestRecommendWithoutHistory(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-2", "Arun Mehta", "arun@campus.edu")
	ctx := context.Background()

	// seven approved events; the general fallback caps at five
	for i := 0; i < 7; i++ {
		input := validInput()
		input.Title = "Event " + string(rune('A'+i))
		createApprovedEvent(t, svc, input)
	}

	recommended, err := svc.Recommend(ctx, "student-2")
	require.NoError(t, err)
	require.LessOrEqual(t, len(recommended), 5)
	require.NotEmpty(t, recommended)
}

func TestRecommendFollowsCategoryAffinity(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-1", "Priya Sharma", "priya@campus.edu")
	ctx := context.Background()

	joined := createApprovedEvent(t, svc, validInput())
	_, err := svc.Register(ctx, joined.ULID, "student-1", "")
	require.NoError(t, err)

	techInput := validInput()
	techInput.Title = "AI Summit"
	createApprovedEvent(t, svc, techInput)

	sportsInput := validInput()
	sportsInput.Title = "Football Finals"
	sportsInput.Category = CategorySports
	createApprovedEvent(t, svc, sportsInput)

	recommended, err := svc.Recommend(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, recommended, 1)
	require.Equal(t, "AI Summit", recommended[0].Title)
}

func TestRecommendNeverIncludesJoinedEvents(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-1", "Priya Sharma", "priya@campus.edu")
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		input := validInput()
		input.Title = "Tech Meetup " + string(rune('A'+i))
		event := createApprovedEvent(t, svc, input)
		if i < 2 {
			_, err := svc.Register(ctx, event.ULID, "student-1", "")
			require.NoError(t, err)
		}
	}

	recommended, err := svc.Recommend(ctx, "student-1")
	require.NoError(t, err)
	for _, event := range recommended {
		for _, attendee := range event.Attendees {
			require.NotEqual(t, "student-1", attendee.UserID)
		}
	}
}

func TestRecommendFallsBackWhenAffinityEmpty(t *testing.T) {
	svc, repo := newTestService(t)
	repo.addUser("student-1", "Priya Sharma", "priya@campus.edu")
	ctx := context.Background()

	// Student joins the only Tech event; remaining events are Sports.
	joined := createApprovedEvent(t, svc, validInput())
	_, err := svc.Register(ctx, joined.ULID, "student-1", "")
	require.NoError(t, err)

	sportsInput := validInput()
	sportsInput.Title = "Cricket League"
	sportsInput.Category = CategorySports
	createApprovedEvent(t, svc, sportsInput)

	recommended, err := svc.Recommend(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, recommended, 1)
	require.Equal(t, "Cricket League", recommended[0].Title)
}

func TestSearchFiltersApprovedOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	approved := createApprovedEvent(t, svc, validInput())

	pendingInput := validInput()
	pendingInput.Title = "Hidden Event"
	_, err := svc.Create(ctx, pendingInput, "club-1")
	require.NoError(t, err)

	results, err := svc.Search(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, approved.ULID, results[0].ULID)
}

func TestSearchByCategoryAndKeyword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	createApprovedEvent(t, svc, validInput())

	cultural := validInput()
	cultural.Title = "Spring Music Festival"
	cultural.Category = CategoryCultural
	createApprovedEvent(t, svc, cultural)

	results, err := svc.Search(ctx, CategoryCultural, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Spring Music Festival", results[0].Title)

	results, err = svc.Search(ctx, "", "MUSIC")
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = svc.Search(ctx, CategoryCultural, "robotics")
	require.NoError(t, err)
	require.Empty(t, results)
}
