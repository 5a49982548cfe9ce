package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mafqudat/mafqudat/internal/api"
)

var (
	// ErrNoPendingRegistration means a later step was submitted before the
	// phone number was accepted.
	ErrNoPendingRegistration = errors.New("no registration in progress")
	// ErrAlreadyVerified means the OTP step has already passed.
	ErrAlreadyVerified = errors.New("phone already verified")
)

// Step is a stage of the registration flow.
type Step int

const (
	StepPhone Step = iota
	StepOTP
	StepProfile
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepPhone:
		return "phone"
	case StepOTP:
		return "otp"
	case StepProfile:
		return "profile"
	case StepDone:
		return "done"
	}
	return "unknown"
}

// Registration walks phone → otp → profile → done. The phone number
// accepted in the first step is carried into the others. It is safe to read
// the step while a submit runs in another goroutine.
type Registration struct {
	mgr *Manager

	mu    sync.Mutex
	step  Step
	phone string
}

// NewRegistration starts a registration at the phone step.
func (m *Manager) NewRegistration() *Registration {
	return &Registration{mgr: m}
}

// Step returns the current step.
func (r *Registration) Step() Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step
}

// Phone returns the phone number being registered.
func (r *Registration) Phone() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phone
}

// state returns the step and phone together.
func (r *Registration) state() (Step, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step, r.phone
}

func (r *Registration) advance(step Step, phone string) {
	r.mu.Lock()
	r.step, r.phone = step, phone
	r.mu.Unlock()
}

// SubmitPhone sends an OTP to phone. It may be repeated to resend the
// code or change the number until the OTP is verified.
func (r *Registration) SubmitPhone(ctx context.Context, phone string) (string, error) {
	if r.Step() > StepOTP {
		return "", ErrAlreadyVerified
	}
	msg, err := r.mgr.SendOTP(ctx, phone)
	if err != nil {
		return "", err
	}
	r.advance(StepOTP, strings.TrimSpace(phone))
	return msg, nil
}

// SubmitOTP verifies the code. A user whose profile is already complete
// skips straight to done.
func (r *Registration) SubmitOTP(ctx context.Context, code string) (*api.AuthResult, error) {
	step, phone := r.state()
	switch {
	case step < StepOTP:
		return nil, ErrNoPendingRegistration
	case step > StepOTP:
		return nil, ErrAlreadyVerified
	}
	res, err := r.mgr.VerifyOTP(ctx, phone, code)
	if err != nil {
		return nil, err
	}
	if res.IsProfileComplete {
		r.advance(StepDone, phone)
	} else {
		r.advance(StepProfile, phone)
	}
	return res, nil
}

// SubmitProfile completes the registration.
func (r *Registration) SubmitProfile(ctx context.Context, p Profile) (*api.AuthResult, error) {
	step, phone := r.state()
	if step != StepProfile {
		return nil, ErrNoPendingRegistration
	}
	p.PhoneNumber = phone
	res, err := r.mgr.CompleteProfile(ctx, p)
	if err != nil {
		return nil, err
	}
	r.advance(StepDone, phone)
	return res, nil
}
