package session

import (
	"fmt"

	"github.com/info324/mspc-voice-ai-brain/pkg/bridge/directive"
)

// dispatch maps one extracted directive to its carrier side effects. Each
// external call is attempted exactly once; failures are logged and the
// conversation continues.
func (s *Session) dispatch(d directive.Directive) {
	switch d := d.(type) {
	case directive.ResidentialComplete:
		s.metrics.DirectiveDispatched("res_done")
		if s.fromNumber == "" {
			s.log.Warn("residential lead complete but caller number unknown")
			return
		}
		if err := s.notify.SendSMS(s.fromNumber, s.cfg.BusinessNumber, residentialConfirmationBody); err != nil {
			s.metrics.NotifyFailed("sms")
			s.log.Error("residential confirmation sms failed", "error", err, "to", s.fromNumber)
			return
		}
		s.log.Info("residential confirmation sent", "to", s.fromNumber)

	case directive.CommercialAlert:
		s.metrics.DirectiveDispatched("comm_alert")
		body := fmt.Sprintf("New commercial lead: %s", d.Summary)
		if err := s.notify.SendSMS(s.cfg.OwnerAlertNumber, s.cfg.BusinessNumber, body); err != nil {
			s.metrics.NotifyFailed("sms")
			s.log.Error("owner alert sms failed", "error", err)
			return
		}
		s.log.Info("owner alerted", "summary", d.Summary)
		s.speak(ownerCallbackUtterance)

	case directive.Handoff:
		s.metrics.DirectiveDispatched("handoff")
		if !s.cfg.HandoffEnabled() || s.callSID == "" {
			s.log.Warn("handoff requested but unavailable",
				"handoff_configured", s.cfg.HandoffEnabled(),
				"call_sid_known", s.callSID != "")
			return
		}
		s.speak(connectingUtterance)
		if err := s.notify.RedirectCall(s.callSID, s.cfg.HandoffURL); err != nil {
			s.metrics.NotifyFailed("redirect")
			s.log.Error("handoff redirect failed", "error", err, "call_sid", s.callSID)
			s.handoffFallback()
		}
	}
}

// handoffFallback asks the owner to ring the customer back when the live
// transfer could not be placed. Best effort only.
func (s *Session) handoffFallback() {
	caller := s.fromNumber
	if caller == "" {
		caller = "an unknown number"
	}
	body := fmt.Sprintf("Live handoff failed for a caller from %s. Please call them back.", caller)
	if err := s.notify.SendSMS(s.cfg.OwnerAlertNumber, s.cfg.BusinessNumber, body); err != nil {
		s.metrics.NotifyFailed("sms")
		s.log.Error("handoff fallback sms failed", "error", err)
	}
}
