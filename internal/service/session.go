package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/pkg/idgen"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"github.com/rhq-project/rhq-coregui/pkg/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SessionConfig struct {
	Secret      string
	TTL         time.Duration
	MaxLifetime time.Duration
}

// LoginResult is handed back to a client after a successful login. Token is
// the opaque session id the client presents on every call.
type LoginResult struct {
	Token     string
	Session   *session.Session
	Subject   *model.Subject
	ExpiresAt time.Time
}

// SessionManager logs subjects in and resolves session tokens back to
// subjects. A token is a signed JWT whose id names a server side session; the
// session expires after TTL without use, the token after MaxLifetime.
type SessionManager struct {
	subjects SubjectStore
	store    session.Store
	config   SessionConfig
	observer SessionObserver
	now      func() time.Time
}

// SessionObserver is told about logins and logouts.
type SessionObserver interface {
	SessionOpened()
	SessionClosed()
}

func (m *SessionManager) SetObserver(o SessionObserver) {
	m.observer = o
}

func NewSessionManager(subjects SubjectStore, store session.Store, config SessionConfig) *SessionManager {
	return &SessionManager{subjects: subjects, store: store, config: config, now: time.Now}
}

func (m *SessionManager) Login(ctx context.Context, name, password string) (*LoginResult, error) {
	ctx = tag(ctx, "Login")

	subject, err := m.subjects.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnWithContext(ctx, "Login attempt for unknown subject").
				String("name", name).
				Log()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, storeError(err, "Subject", 0)
	}

	if subject.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(subject.PasswordHash), []byte(password)) != nil {
		logger.WarnWithContext(ctx, "Login attempt with wrong password").
			String("name", name).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}
	if !subject.Factive {
		logger.WarnWithContext(ctx, "Login attempt for inactive subject").
			String("name", name).
			Log()
		return nil, apperrors.ErrSubjectInactive
	}

	sessionID, err := idgen.SessionID()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	now := m.now()
	expiresAt := now.Add(m.config.MaxLifetime)
	sess := &session.Session{
		ID:          sessionID,
		SubjectID:   subject.ID,
		SubjectName: subject.Name,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}
	if err := m.store.Save(ctx, sess, m.config.TTL); err != nil {
		logger.ErrorWithContext(ctx, "Failed to save session").
			Int("subject_id", subject.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}

	token, err := m.sign(sess, now)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Subject logged in").
		Int("subject_id", subject.ID).
		String("name", subject.Name).
		Log()
	if m.observer != nil {
		m.observer.SessionOpened()
	}

	return &LoginResult{Token: token, Session: sess, Subject: subject, ExpiresAt: expiresAt}, nil
}

func (m *SessionManager) sign(sess *session.Session, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   strconv.Itoa(sess.SubjectID),
		Issuer:    constants.AppName,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.config.Secret))
}

// parse verifies the token and returns the subject id and session id it names.
func (m *SessionManager) parse(token string) (int, string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(m.config.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(constants.AppName),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return 0, "", apperrors.WrapError(apperrors.ErrSessionInvalid, err)
	}

	subjectID, err := strconv.Atoi(claims.Subject)
	if err != nil || claims.ID == "" {
		return 0, "", apperrors.ErrSessionInvalid
	}
	return subjectID, claims.ID, nil
}

// Authenticate resolves a token to its active subject, roles loaded, and
// extends the session's idle timeout.
func (m *SessionManager) Authenticate(ctx context.Context, token string) (*model.Subject, string, error) {
	ctx = tag(ctx, "Authenticate")

	if token == "" {
		return nil, "", apperrors.ErrUnauthorized
	}
	subjectID, sessionID, err := m.parse(token)
	if err != nil {
		return nil, "", err
	}

	if _, err := m.store.Get(ctx, subjectID, sessionID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, "", apperrors.ErrSessionInvalid
		}
		return nil, "", apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}
	if err := m.store.Touch(ctx, subjectID, sessionID, m.config.TTL); err != nil && !errors.Is(err, session.ErrNotFound) {
		logger.WarnWithContext(ctx, "Failed to refresh session").
			Int("subject_id", subjectID).
			Err(err).
			Log()
	}

	subject, err := m.subjects.GetByID(ctx, subjectID, "Roles")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrSessionInvalid
		}
		return nil, "", storeError(err, "Subject", subjectID)
	}
	if !subject.Factive {
		return nil, "", apperrors.ErrSubjectInactive
	}
	return subject, sessionID, nil
}

// Logout ends the session named by the token. Unknown sessions are ignored.
func (m *SessionManager) Logout(ctx context.Context, token string) error {
	ctx = tag(ctx, "Logout")

	subjectID, sessionID, err := m.parse(token)
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, subjectID, sessionID); err != nil {
		return apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}

	logger.InfoWithContext(ctx, "Subject logged out").
		Int("subject_id", subjectID).
		Log()
	if m.observer != nil {
		m.observer.SessionClosed()
	}
	return nil
}

// InvalidateSubject ends every session of a subject.
func (m *SessionManager) InvalidateSubject(ctx context.Context, subjectID int) error {
	removed, err := m.store.DeleteSubject(ctx, subjectID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}
	if removed > 0 {
		logger.InfoWithContext(tag(ctx, "InvalidateSubject"), "Sessions invalidated").
			Int("subject_id", subjectID).
			Int("sessions", removed).
			Log()
	}
	return nil
}
