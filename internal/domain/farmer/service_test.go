package farmer

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/agri-advisor/internal/domain/advisory"
	apperrors "github.com/yanqian/agri-advisor/pkg/errors"
	"github.com/yanqian/agri-advisor/pkg/logger"
)

func TestRegisterIssuesSession(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	reg, err := svc.Register(context.Background(), RegisterRequest{UserID: "farmer-1", Language: "HI", ContactMode: "sms"})
	require.NoError(t, err)
	require.Equal(t, "farmer-1", reg.UserID)
	require.Equal(t, "hi", reg.Language)
	require.Equal(t, "sms", reg.ContactMode)
	require.Equal(t, testNow(), reg.CreatedAt)
	require.NotEmpty(t, reg.Token)
	require.Equal(t, testNow().Add(time.Hour), reg.TokenExpiresAt)

	stored, ok, err := repo.GetProfile(context.Background(), "farmer-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, reg.Profile, stored)

	claims, err := svc.ValidateSession(context.Background(), reg.Token)
	require.NoError(t, err)
	require.Equal(t, "farmer-1", claims.UserID)
	require.Equal(t, "hi", claims.Language)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newStubRepo())
	cases := []RegisterRequest{
		{Language: "en", ContactMode: "sms"},
		{UserID: "u", ContactMode: "sms"},
		{UserID: "u", Language: "en"},
		{UserID: "u", Language: "fr", ContactMode: "sms"},
	}
	for _, req := range cases {
		_, err := svc.Register(context.Background(), req)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput), "request %+v", req)
	}
}

func TestRegisterRepositoryFailure(t *testing.T) {
	repo := newStubRepo()
	repo.err = errors.New("db down")
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{UserID: "u", Language: "en", ContactMode: "voice"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeRepository))
}

func TestRegisterExistingProfileNeedsOwner(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterRequest{UserID: "farmer-1", Language: "hi", ContactMode: "sms"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{UserID: "farmer-1", Language: "en", ContactMode: "voice"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	_, err = svc.Register(ctx, RegisterRequest{UserID: "farmer-1", Language: "en", ContactMode: "voice", SessionUserID: "farmer-2"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	stored, _, err := repo.GetProfile(ctx, "farmer-1")
	require.NoError(t, err)
	require.Equal(t, "hi", stored.Language)

	again, err := svc.Register(ctx, RegisterRequest{UserID: "farmer-1", Language: "en", ContactMode: "voice", SessionUserID: "farmer-1"})
	require.NoError(t, err)
	require.Equal(t, "en", again.Language)
	require.Equal(t, first.CreatedAt, again.CreatedAt)
}

func TestNewServiceWithoutSecretSignsPerProcess(t *testing.T) {
	ctx := context.Background()
	svc := NewService(Config{TokenTTL: time.Hour}, newStubRepo(), logger.Discard())

	reg, err := svc.Register(ctx, RegisterRequest{UserID: "farmer-1", Language: "en", ContactMode: "sms"})
	require.NoError(t, err)
	claims, err := svc.ValidateSession(ctx, reg.Token)
	require.NoError(t, err)
	require.Equal(t, "farmer-1", claims.UserID)

	restarted := NewService(Config{TokenTTL: time.Hour}, newStubRepo(), logger.Discard())
	_, err = restarted.ValidateSession(ctx, reg.Token)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
}

func TestSubmitInput(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	in := advisory.FarmerInput{
		Location:  &advisory.Location{Village: "Khed", State: "Maharashtra", District: "Pune"},
		LandArea:  &advisory.LandArea{Value: 2, Unit: "acres"},
		BudgetINR: 40000,
	}
	sub, err := svc.SubmitInput(context.Background(), InputRequest{UserID: "farmer-1", FarmerInput: in})
	require.NoError(t, err)
	require.Equal(t, "id-1", sub.ID)
	require.Equal(t, StatusProcessing, sub.Status)
	require.Equal(t, testNow(), sub.SubmittedAt)
	require.Equal(t, in, sub.FarmerInput)

	list, err := repo.ListSubmissions(context.Background(), "farmer-1")
	require.NoError(t, err)
	require.Equal(t, []Submission{sub}, list)
}

func TestSubmitInputRequiresFields(t *testing.T) {
	svc := newTestService(newStubRepo())
	loc := &advisory.Location{Village: "Khed"}
	land := &advisory.LandArea{Value: 1, Unit: "acres"}

	cases := []InputRequest{
		{FarmerInput: advisory.FarmerInput{Location: loc, LandArea: land}},
		{UserID: "u", FarmerInput: advisory.FarmerInput{LandArea: land}},
		{UserID: "u", FarmerInput: advisory.FarmerInput{Location: loc}},
	}
	for _, req := range cases {
		_, err := svc.SubmitInput(context.Background(), req)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	}
}

func TestHistory(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	empty, err := svc.History(ctx, "farmer-1")
	require.NoError(t, err)
	require.Nil(t, empty.Profile)
	require.NotNil(t, empty.Submissions)
	require.Empty(t, empty.Submissions)

	_, err = svc.Register(ctx, RegisterRequest{UserID: "farmer-1", Language: "ta", ContactMode: "voice"})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = svc.SubmitInput(ctx, InputRequest{
			UserID: "farmer-1",
			FarmerInput: advisory.FarmerInput{
				Location: &advisory.Location{Village: "Rampur"},
				LandArea: &advisory.LandArea{Value: 1, Unit: "acre"},
			},
		})
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, " farmer-1 ")
	require.NoError(t, err)
	require.NotNil(t, history.Profile)
	require.Equal(t, "ta", history.Profile.Language)
	require.Len(t, history.Submissions, 2)

	_, err = svc.History(ctx, "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestValidateSessionRejects(t *testing.T) {
	svc := newTestService(newStubRepo())

	_, err := svc.ValidateSession(context.Background(), "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	_, err = svc.ValidateSession(context.Background(), "not-a-jwt")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	other := newTestService(newStubRepo())
	other.cfg.Secret = "another-secret"
	reg, err := other.Register(context.Background(), RegisterRequest{UserID: "u", Language: "en", ContactMode: "sms"})
	require.NoError(t, err)
	_, err = svc.ValidateSession(context.Background(), reg.Token)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u",
			ExpiresAt: jwt.NewNumericDate(testNow().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte(svc.cfg.Secret))
	require.NoError(t, err)
	_, err = svc.ValidateSession(context.Background(), signed)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
}

func newTestService(repo Repository) *service {
	seq := 0
	return &service{
		cfg:    Config{Secret: "test-secret", TokenTTL: time.Hour},
		repo:   repo,
		logger: logger.Discard(),
		now:    testNow,
		newID: func() string {
			seq++
			return "id-" + strconv.Itoa(seq)
		},
	}
}

func testNow() time.Time {
	return time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
}

type stubRepo struct {
	profiles    map[string]Profile
	submissions []Submission
	err         error
}

func newStubRepo() *stubRepo {
	return &stubRepo{profiles: make(map[string]Profile)}
}

func (r *stubRepo) SaveProfile(_ context.Context, profile Profile) (Profile, error) {
	if r.err != nil {
		return Profile{}, r.err
	}
	if existing, ok := r.profiles[profile.UserID]; ok {
		profile.CreatedAt = existing.CreatedAt
	}
	r.profiles[profile.UserID] = profile
	return profile, nil
}

func (r *stubRepo) GetProfile(_ context.Context, userID string) (Profile, bool, error) {
	p, ok := r.profiles[userID]
	return p, ok, r.err
}

func (r *stubRepo) SaveSubmission(_ context.Context, submission Submission) error {
	if r.err != nil {
		return r.err
	}
	r.submissions = append(r.submissions, submission)
	return nil
}

func (r *stubRepo) ListSubmissions(_ context.Context, userID string) ([]Submission, error) {
	var out []Submission
	for _, s := range r.submissions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, r.err
}
