package crm

import (
	"sort"
	"strings"
	"sync"
	"time"

	"site-integrations/internal/common/config"
	httpx "site-integrations/internal/common/http"
	"site-integrations/internal/common/logger"
)

type FactoryOptions struct {
	Config     config.CRMConfig
	HTTPClient *httpx.Client
	Logger     logger.Logger
	// RDStationLookupDelay overrides DefaultRDStationLookupDelay when non-nil.
	RDStationLookupDelay *time.Duration
}

// Factory builds the configured LeadAdapter once. Construct it at start-up
// and share it; Adapter is safe for concurrent use.
type Factory struct {
	opts    FactoryOptions
	once    sync.Once
	adapter LeadAdapter
}

func NewFactory(opts FactoryOptions) *Factory {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = httpx.NewClient(15 * time.Second)
	}
	opts.Logger = opts.Logger.Named("crm")
	return &Factory{opts: opts}
}

// Adapter returns the process-wide adapter, building it on first use.
func (f *Factory) Adapter() LeadAdapter {
	f.once.Do(func() {
		f.adapter = Build(f.opts)
		f.opts.Logger.Info("crm adapter ready", map[string]interface{}{
			"provider": string(f.adapter.Provider()),
		})
	})
	return f.adapter
}

// Build selects and constructs an adapter without caching it. Missing
// credentials and unknown providers yield a NoopAdapter.
func Build(opts FactoryOptions) LeadAdapter {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	client := opts.HTTPClient
	if client == nil {
		client = httpx.NewClient(15 * time.Second)
	}

	provider := Provider(strings.ToLower(strings.TrimSpace(cfg.Provider)))
	switch provider {
	case ProviderPipedrive:
		if missing := missingCredentials(map[string]string{
			"PIPEDRIVE_API_TOKEN": cfg.Pipedrive.APIToken,
		}); len(missing) > 0 {
			return disabled(log, provider, missing)
		}
		return NewPipedriveAdapter(cfg.Pipedrive.APIToken, cfg.Pipedrive.OwnerID, cfg.Pipedrive.BaseURL, client, log)

	case ProviderRDStation:
		if missing := missingCredentials(map[string]string{
			"RDSTATION_PUBLIC_TOKEN":  cfg.RDStation.PublicToken,
			"RDSTATION_PRIVATE_TOKEN": cfg.RDStation.PrivateToken,
		}); len(missing) > 0 {
			return disabled(log, provider, missing)
		}
		delay := DefaultRDStationLookupDelay
		if opts.RDStationLookupDelay != nil {
			delay = *opts.RDStationLookupDelay
		}
		return NewRDStationAdapter(cfg.RDStation.PublicToken, cfg.RDStation.PrivateToken, cfg.RDStation.BaseURL, delay, client, log)

	case ProviderHubSpot:
		if missing := missingCredentials(map[string]string{
			"HUBSPOT_API_KEY": cfg.HubSpot.APIKey,
		}); len(missing) > 0 {
			return disabled(log, provider, missing)
		}
		return NewHubSpotAdapter(cfg.HubSpot.APIKey, cfg.HubSpot.WorkflowID, cfg.HubSpot.BaseURL, client, log)

	case ProviderZoho:
		if missing := missingCredentials(map[string]string{
			"ZOHO_CRM_OAUTH_TOKEN": cfg.Zoho.OAuthToken,
		}); len(missing) > 0 {
			return disabled(log, provider, missing)
		}
		return NewZohoAdapter(cfg.Zoho.OAuthToken, cfg.Zoho.BaseURL, client, log)

	case ProviderNone, "":
		return NewNoopAdapter()

	default:
		log.Warn("unknown CRM provider, CRM sync disabled", map[string]interface{}{
			"provider": cfg.Provider,
		})
		return NewNoopAdapter()
	}
}

func missingCredentials(required map[string]string) []string {
	var missing []string
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func disabled(log logger.Logger, provider Provider, missing []string) LeadAdapter {
	log.Warn("CRM credentials missing, CRM sync disabled", map[string]interface{}{
		"provider": string(provider),
		"missing":  missing,
	})
	return NewNoopAdapter()
}
