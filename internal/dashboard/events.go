package dashboard

import (
	"encoding/json"

	"github.com/MikeSquared-Agency/Rankboard/internal/hermes"
)

// SetupSubscriptions invalidates local views when another instance reports
// a change. Events this instance published itself are ignored; the command
// already invalidated.
func (s *Service) SetupSubscriptions() {
	if s.hermes == nil {
		return
	}

	for _, subject := range []string{hermes.SubjectRunComputedAll, hermes.SubjectRunFinalizedAll, hermes.SubjectRunRefreshedAll} {
		if err := s.hermes.Subscribe(subject, s.handleRunEvent); err != nil {
			s.logger.Warn("failed to subscribe", "subject", subject, "error", err)
		}
	}
	if err := s.hermes.Subscribe(hermes.SubjectCriteriaScores, func(_ string, data []byte) {
		if s.ownEvent(data) {
			return
		}
		s.logger.Info("criteria scores changed remotely, invalidating")
		s.InvalidateCriteria()
	}); err != nil {
		s.logger.Warn("failed to subscribe", "subject", hermes.SubjectCriteriaScores, "error", err)
	}
}

func (s *Service) handleRunEvent(subject string, data []byte) {
	runID, event, ok := hermes.ParseRunSubject(subject)
	if !ok {
		return
	}
	if s.ownEvent(data) {
		return
	}
	s.logger.Info("run changed remotely, invalidating", "run_id", runID, "event", event)
	s.Invalidate(runID)
}

func (s *Service) ownEvent(data []byte) bool {
	var evt struct {
		Origin string `json:"origin"`
	}
	if err := json.Unmarshal(data, &evt); err != nil {
		s.logger.Warn("invalid rankboard event", "error", err)
		return false
	}
	return evt.Origin == s.origin
}
