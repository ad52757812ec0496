package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/orderflow/reservation-system/shared/faults"
	"github.com/orderflow/reservation-system/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// callTimeout bounds how long the orchestrator can be suspended waiting on
// one participant.
const callTimeout = 10 * time.Second

// HTTPParticipantGateway performs participant calls over HTTP, normalizing
// transport failures and error statuses into faults.
type HTTPParticipantGateway struct {
	client *http.Client
}

// NewHTTPParticipantGateway creates a gateway with the fixed per-call timeout.
func NewHTTPParticipantGateway() *HTTPParticipantGateway {
	return &HTTPParticipantGateway{
		client: &http.Client{Timeout: callTimeout},
	}
}

// Call posts the JSON payload to the endpoint and returns the decoded
// response body. An error status is translated into a fault carrying the
// action label and the participant's reported reason when the body is
// structured, otherwise the raw body text. Transport failures and timeouts
// produce the same fault shape with a generic reason.
func (g *HTTPParticipantGateway) Call(ctx context.Context, endpoint string, payload map[string]interface{}, action string) (map[string]interface{}, error) {
	ctx, span := telemetry.StartSpan(ctx, "participant.call")
	defer span.End()
	span.SetAttributes(
		attribute.String("participant.endpoint", endpoint),
		attribute.String("participant.action", action),
	)

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, faults.Internal(action, errors.Wrap(err, "failed to encode payload"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, faults.Internal(action, errors.Wrap(err, "failed to build request"))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.recordCall(ctx, action, "transport_error")
		return nil, faults.Transport(action, errors.New("participant unreachable"))
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		g.recordCall(ctx, action, "transport_error")
		return nil, faults.Transport(action, errors.New("participant response unreadable"))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		g.recordCall(ctx, action, "rejected")
		return nil, faults.Upstream(action, participantReason(resp, responseBody))
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(responseBody, &decoded); err != nil {
		g.recordCall(ctx, action, "bad_response")
		return nil, faults.Internal(action, errors.Wrap(err, "failed to decode response"))
	}

	g.recordCall(ctx, action, "ok")
	return decoded, nil
}

func (g *HTTPParticipantGateway) recordCall(ctx context.Context, action, result string) {
	telemetry.RecordCounter(ctx, "participant_calls_total", "Participant calls by result", 1,
		attribute.String("action", action),
		attribute.String("result", result),
	)
}

// participantReason extracts the participant's own reason string from a
// structured error body, falling back to the raw body text.
func participantReason(resp *http.Response, body []byte) string {
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var structured struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &structured); err == nil && structured.Detail != "" {
			return structured.Detail
		}
	}
	return string(body)
}
