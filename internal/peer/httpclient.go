package peer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Shobhakumari0502/VirtualClient/internal/layout"
)

const serverStateKey = "serverstate"

// HTTPControlClient polls an instance's state service over HTTP.
// Probes repeat at PollInterval until they succeed or their budget elapses.
type HTTPControlClient struct {
	// Client used for probe requests. Defaults to http.DefaultClient.
	Client *http.Client
	// Scheme and port of the remote state service.
	Scheme string
	Port   int
	// PollInterval is the delay between consecutive probe attempts.
	PollInterval time.Duration
}

func NewHTTPControlClient(port int, pollInterval time.Duration) *HTTPControlClient {
	return &HTTPControlClient{
		Client:       http.DefaultClient,
		Scheme:       "http",
		Port:         port,
		PollInterval: pollInterval,
	}
}

func (c *HTTPControlClient) PollHeartbeat(ctx context.Context, instance layout.ClientInstance, timeout time.Duration) error {
	return c.poll(ctx, instance, "heartbeat", timeout)
}

func (c *HTTPControlClient) PollApplicationOnline(ctx context.Context, instance layout.ClientInstance, timeout time.Duration) error {
	return c.poll(ctx, instance, "online", timeout)
}

// poll repeats a GET against the named probe endpoint until it returns 200,
// the timeout elapses, or ctx is cancelled. Probe requests run under a
// budget context so a peer that accepts the connection but never responds
// cannot block past the timeout. The last probe error is included in the
// timeout error so the caller can see why the instance never became ready.
func (c *HTTPControlClient) poll(ctx context.Context, instance layout.ClientInstance, probe string, timeout time.Duration) error {
	budget, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		if err := c.probeOnce(budget, instance, probe); err == nil {
			return nil
		} else {
			lastErr = err
		}
		// Distinguish parent cancellation from budget expiry: only the
		// latter is a synchronization timeout. The timeout error must not
		// wrap the budget context's error, or it would be misclassified as
		// cooperative cancellation.
		if err := ctx.Err(); err != nil {
			return err
		}
		if budget.Err() != nil {
			return errors.Errorf("%s probe against %s timed out after %s: %s", probe, instance.Name, timeout, lastErr)
		}
		log.WithFields(log.Fields{"instance": instance.Name, "probe": probe}).
			Debugf("probe not ready: %s", lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-budget.Done():
			return errors.Errorf("%s probe against %s timed out after %s: %s", probe, instance.Name, timeout, lastErr)
		case <-ticker.C:
		}
	}
}

func (c *HTTPControlClient) probeOnce(ctx context.Context, instance layout.ClientInstance, probe string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(instance, probe), nil)
	if err != nil {
		return errors.WithStack(err)
	}
	rsp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return errors.Errorf("probe %s returned status %d", probe, rsp.StatusCode)
	}
	return nil
}

func (c *HTTPControlClient) GetServerState(ctx context.Context, instance layout.ClientInstance) (ServerState, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(instance, "state/"+serverStateKey), nil)
	if err != nil {
		return ServerState{}, false, errors.WithStack(err)
	}
	rsp, err := c.Client.Do(req)
	if err != nil {
		return ServerState{}, false, err
	}
	defer rsp.Body.Close()
	if rsp.StatusCode == http.StatusNotFound {
		return ServerState{}, false, nil
	}
	if rsp.StatusCode != http.StatusOK {
		return ServerState{}, false, errors.Errorf("state fetch returned status %d", rsp.StatusCode)
	}
	var state ServerState
	if err := json.NewDecoder(rsp.Body).Decode(&state); err != nil {
		return ServerState{}, false, errors.Wrap(err, "failed to decode server state")
	}
	return state, true, nil
}

func (c *HTTPControlClient) url(instance layout.ClientInstance, path string) string {
	return fmt.Sprintf("%s://%s:%d/%s", c.Scheme, instance.Address, c.Port, path)
}
