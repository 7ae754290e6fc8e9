package triage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clinicflow/clinicflow/internal/domain/appointment"
	"github.com/clinicflow/clinicflow/internal/domain/patient"
	"github.com/clinicflow/clinicflow/internal/domain/queue"
)

type fixture struct {
	queue    *queue.Store
	ledger   *appointment.Service
	patients *patient.Service
	drafts   DraftStore
	svc      *Service
}

func newFixture() *fixture {
	q := queue.NewStore()
	ledger := appointment.NewService(appointment.NewMemRepo())
	patients := patient.NewService(patient.NewMemRepo())
	drafts := NewMemStore()
	return &fixture{
		queue:    q,
		ledger:   ledger,
		patients: patients,
		drafts:   drafts,
		svc:      NewService(q, ledger, patients, drafts),
	}
}

func (f *fixture) arrive(t *testing.T, patientID string) {
	t.Helper()
	if err := f.patients.Register(context.Background(), &patient.Patient{PatientID: patientID, Name: patientID}); err != nil {
		t.Fatalf("register %s: %v", patientID, err)
	}
	if _, err := f.queue.Enqueue(patientID, patientID, queue.PriorityNormal, "checkup"); err != nil {
		t.Fatalf("enqueue %s: %v", patientID, err)
	}
}

func fillRequired(t *testing.T, svc *Service, patientID string) {
	t.Helper()
	doctor := "D1"
	doctorName := "Dr. House"
	complaint := "persistent cough"
	bp := "120/80"
	hr := "72"
	temp := "36.6"
	_, err := svc.Edit(context.Background(), patientID, &EditRequest{
		AssignedDoctorID:   &doctor,
		AssignedDoctorName: &doctorName,
		ChiefComplaint:     &complaint,
		Vitals:             &VitalsPatch{BloodPressure: &bp, HeartRate: &hr, Temperature: &temp},
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
}

func TestOpen(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")

	session, err := f.svc.Open(context.Background(), "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Recovered {
		t.Error("fresh session must not be marked recovered")
	}

	entry, _ := f.queue.Get("P1")
	if entry.Stage != queue.StageInTriage {
		t.Errorf("expected in-triage, got %s", entry.Stage)
	}
}

func TestOpen_UnknownPatient(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Open(context.Background(), "ghost")
	if !errors.Is(err, queue.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOpen_WrongStage(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")
	f.queue.AdvanceStage("P1", queue.StageInTriage)
	f.queue.AdvanceStage("P1", queue.StageWithDoctor)

	_, err := f.svc.Open(context.Background(), "P1")
	if !errors.Is(err, queue.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestOpen_ResumesInTriage(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")

	if _, err := f.svc.Open(context.Background(), "P1"); err != nil {
		t.Fatalf("first open: %v", err)
	}
	session, err := f.svc.Open(context.Background(), "P1")
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	if !session.Recovered {
		t.Error("expected the saved draft to be recovered")
	}
}

func TestOpen_PrepopulatesDoctorFromAppointment(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")

	today := time.Now().Format(appointment.DateLayout)
	appt := &appointment.Appointment{
		PatientID:  "P1",
		DoctorID:   "D7",
		DoctorName: "Dr. Wilson",
		Date:       today,
		TimeSlot:   "10:00",
	}
	if err := f.ledger.Schedule(context.Background(), appt); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	session, err := f.svc.Open(context.Background(), "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Draft.AssignedDoctorID != "D7" {
		t.Errorf("expected doctor from appointment, got %q", session.Draft.AssignedDoctorID)
	}
	if session.Appointment == nil || session.Appointment.ID != appt.ID {
		t.Error("expected today's appointment on the session")
	}
}

func TestOpen_RecoveredDraftNotReinitialized(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")
	f.svc.Open(context.Background(), "P1")

	complaint := "migraine"
	f.svc.Edit(context.Background(), "P1", &EditRequest{ChiefComplaint: &complaint})

	// Drop and recreate the service: drafts outlive the session.
	f.svc = NewService(f.queue, f.ledger, f.patients, f.drafts)
	session, err := f.svc.Open(context.Background(), "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !session.Recovered {
		t.Error("expected recovered draft")
	}
	if session.Draft.ChiefComplaint != "migraine" {
		t.Errorf("draft was re-initialized: %+v", session.Draft)
	}
}

func TestEdit_PersistsImmediately(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")
	f.svc.Open(context.Background(), "P1")

	bp := "140/95"
	if _, err := f.svc.Edit(context.Background(), "P1", &EditRequest{Vitals: &VitalsPatch{BloodPressure: &bp}}); err != nil {
		t.Fatalf("edit: %v", err)
	}

	saved, err := f.drafts.Get(context.Background(), "P1")
	if err != nil {
		t.Fatalf("draft not persisted: %v", err)
	}
	if saved.Vitals.BloodPressure != "140/95" {
		t.Errorf("expected persisted edit, got %+v", saved.Vitals)
	}
}

func TestComplete(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")
	f.svc.Open(context.Background(), "P1")
	fillRequired(t, f.svc, "P1")

	w := 70.0
	h := 175.0
	f.svc.Edit(context.Background(), "P1", &EditRequest{Vitals: &VitalsPatch{WeightKg: &w, HeightCm: &h}})

	entry, err := f.svc.Complete(context.Background(), "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Stage != queue.StageWithDoctor {
		t.Errorf("expected with-doctor, got %s", entry.Stage)
	}
	if entry.AssignedDoctorID == nil || *entry.AssignedDoctorID != "D1" {
		t.Error("expected doctor assigned on the queue entry")
	}

	p, _ := f.patients.Get(context.Background(), "P1")
	if p.Vitals == nil {
		t.Fatal("expected vitals snapshot on the patient record")
	}
	if p.Vitals.BMI != 22.9 {
		t.Errorf("expected BMI 22.9, got %v", p.Vitals.BMI)
	}
	if p.Vitals.ChiefComplaint != "persistent cough" {
		t.Errorf("expected chief complaint on snapshot, got %q", p.Vitals.ChiefComplaint)
	}

	if _, err := f.drafts.Get(context.Background(), "P1"); !errors.Is(err, ErrDraftNotFound) {
		t.Error("expected draft to be discarded")
	}
}

func TestComplete_ChecksInAppointment(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")

	today := time.Now().Format(appointment.DateLayout)
	appt := &appointment.Appointment{
		PatientID: "P1", DoctorID: "D7", DoctorName: "Dr. Wilson",
		Date: today, TimeSlot: "10:00",
	}
	f.ledger.Schedule(context.Background(), appt)

	f.svc.Open(context.Background(), "P1")
	fillRequired(t, f.svc, "P1")
	// Doctor from the appointment was pre-filled then overridden by the edit;
	// completion still checks the appointment in.
	entry, err := f.svc.Complete(context.Background(), "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Stage != queue.StageWithDoctor {
		t.Errorf("expected with-doctor, got %s", entry.Stage)
	}

	updated, _ := f.ledger.Get(context.Background(), appt.ID)
	if updated.Status != appointment.StatusCheckedIn {
		t.Errorf("expected checked-in, got %s", updated.Status)
	}
}

func TestComplete_UnregisteredPatient(t *testing.T) {
	f := newFixture()
	// Enqueued at the desk but never registered with the patient index.
	if _, err := f.queue.Enqueue("P1", "P1", queue.PriorityNormal, "checkup"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := f.svc.Open(context.Background(), "P1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	fillRequired(t, f.svc, "P1")

	_, err := f.svc.Complete(context.Background(), "P1")
	if !errors.Is(err, patient.ErrNotFound) {
		t.Fatalf("expected patient.ErrNotFound, got %v", err)
	}

	// The vitals write failed before any queue move, so the session can be
	// retried once the patient record exists.
	entry, _ := f.queue.Get("P1")
	if entry.Stage != queue.StageInTriage {
		t.Errorf("expected in-triage, got %s", entry.Stage)
	}
	if _, err := f.drafts.Get(context.Background(), "P1"); err != nil {
		t.Errorf("expected draft to be kept: %v", err)
	}
}

func TestComplete_ToleratesAppointmentGoneTerminal(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")

	today := time.Now().Format(appointment.DateLayout)
	appt := &appointment.Appointment{
		PatientID: "P1", DoctorID: "D7", DoctorName: "Dr. Wilson",
		Date: today, TimeSlot: "10:00",
	}
	f.ledger.Schedule(context.Background(), appt)

	f.svc.Open(context.Background(), "P1")
	fillRequired(t, f.svc, "P1")

	// Another station completes the appointment before triage finishes.
	if _, err := f.ledger.Complete(context.Background(), appt.ID); err != nil {
		t.Fatalf("complete appointment: %v", err)
	}

	entry, err := f.svc.Complete(context.Background(), "P1")
	if err != nil {
		t.Fatalf("triage completion must tolerate a terminal appointment: %v", err)
	}
	if entry.Stage != queue.StageWithDoctor {
		t.Errorf("expected with-doctor, got %s", entry.Stage)
	}
	if _, err := f.drafts.Get(context.Background(), "P1"); !errors.Is(err, ErrDraftNotFound) {
		t.Error("expected draft to be discarded")
	}

	updated, _ := f.ledger.Get(context.Background(), appt.ID)
	if updated.Status != appointment.StatusCompleted {
		t.Errorf("appointment status must stay completed, got %s", updated.Status)
	}
}

func TestComplete_KeepsAppointmentDoctorWhenNotOverridden(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")

	today := time.Now().Format(appointment.DateLayout)
	f.ledger.Schedule(context.Background(), &appointment.Appointment{
		PatientID: "P1", DoctorID: "D7", DoctorName: "Dr. Wilson",
		Date: today, TimeSlot: "10:00",
	})

	f.svc.Open(context.Background(), "P1")
	complaint := "dizziness"
	bp := "120/80"
	hr := "70"
	temp := "36.7"
	f.svc.Edit(context.Background(), "P1", &EditRequest{
		ChiefComplaint: &complaint,
		Vitals:         &VitalsPatch{BloodPressure: &bp, HeartRate: &hr, Temperature: &temp},
	})

	entry, err := f.svc.Complete(context.Background(), "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.AssignedDoctorID == nil || *entry.AssignedDoctorID != "D7" {
		t.Error("expected appointment's doctor to carry through")
	}
}

func TestComplete_IncompleteNamesFirstMissingField(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")
	f.svc.Open(context.Background(), "P1")

	doctor := "D1"
	complaint := "fatigue"
	hr := "70"
	temp := "36.8"
	f.svc.Edit(context.Background(), "P1", &EditRequest{
		AssignedDoctorID: &doctor,
		ChiefComplaint:   &complaint,
		Vitals:           &VitalsPatch{HeartRate: &hr, Temperature: &temp},
	})

	_, err := f.svc.Complete(context.Background(), "P1")
	var incomplete *IncompleteTriageError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteTriageError, got %v", err)
	}
	if incomplete.Field != "blood pressure" {
		t.Errorf("expected blood pressure named, got %q", incomplete.Field)
	}

	// Validation failure must leave everything untouched.
	entry, _ := f.queue.Get("P1")
	if entry.Stage != queue.StageInTriage {
		t.Errorf("queue entry must stay in-triage, got %s", entry.Stage)
	}
	p, _ := f.patients.Get(context.Background(), "P1")
	if p.Vitals != nil {
		t.Error("no vitals snapshot may be written on failed validation")
	}
	if _, err := f.drafts.Get(context.Background(), "P1"); err != nil {
		t.Error("draft must survive failed validation")
	}
}

func TestComplete_NoActiveTriage(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")

	_, err := f.svc.Complete(context.Background(), "P1")
	if !errors.Is(err, ErrNoActiveTriage) {
		t.Errorf("expected ErrNoActiveTriage, got %v", err)
	}
}

func TestComplete_WalkInSkipsCheckIn(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")
	f.svc.Open(context.Background(), "P1")
	fillRequired(t, f.svc, "P1")

	if _, err := f.svc.Complete(context.Background(), "P1"); err != nil {
		t.Fatalf("walk-in completion must succeed: %v", err)
	}
}

func TestCancel(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")
	f.svc.Open(context.Background(), "P1")
	fillRequired(t, f.svc, "P1")

	entry, err := f.svc.Cancel(context.Background(), "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Stage != queue.StageWaiting {
		t.Errorf("expected waiting, got %s", entry.Stage)
	}
	if _, err := f.drafts.Get(context.Background(), "P1"); !errors.Is(err, ErrDraftNotFound) {
		t.Error("expected draft discarded on cancel")
	}

	// The entry is back in the pool and can be triaged again from scratch.
	session, err := f.svc.Open(context.Background(), "P1")
	if err != nil {
		t.Fatalf("reopen after cancel: %v", err)
	}
	if session.Recovered {
		t.Error("cancelled draft must not be recovered")
	}
}

func TestDrafts(t *testing.T) {
	f := newFixture()
	f.arrive(t, "P1")
	f.arrive(t, "P2")
	f.svc.Open(context.Background(), "P1")
	f.svc.Open(context.Background(), "P2")

	drafts, err := f.svc.Drafts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drafts) != 2 {
		t.Errorf("expected 2 drafts, got %d", len(drafts))
	}
}
