package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cappuccinotm/azdohooks/app/azdevops"
	"github.com/cappuccinotm/azdohooks/app/datadog"
	"github.com/cappuccinotm/azdohooks/app/errs"
	"github.com/cappuccinotm/azdohooks/app/service"
	"github.com/cappuccinotm/azdohooks/app/store"
	"github.com/cappuccinotm/azdohooks/pkg/logx"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Run configures or removes the Datadog service hooks of the organization.
type Run struct {
	Site         string `long:"dd-site" env:"DD_SITE" choice:"datadoghq.com" choice:"datadoghq.eu" choice:"ap1.datadoghq.com" choice:"us3.datadoghq.com" choice:"us5.datadoghq.com" choice:"datad0g.com" description:"Datadog site to use"`
	Organization string `short:"o" long:"az-devops-org" env:"AZURE_DEVOPS_ORG" description:"Azure DevOps organization on which service hooks will be configured"`
	Project      string `long:"project" description:"scope the installation to a single project of the organization"`
	Uninstall    bool   `long:"uninstall" description:"uninstall Datadog service hooks from all projects in the organization"`
	List         bool   `long:"list" description:"list the currently configured Datadog service hooks and exit"`
	Verbose      bool   `short:"v" long:"verbose" description:"additional logging for every API call that is performed"`
	ConfLocation string `short:"c" long:"config_location" env:"CONFIG_LOCATION" description:"location of the configuration file with defaults for the flags above"`

	Token  string `long:"az-devops-token" env:"AZURE_DEVOPS_TOKEN" description:"Azure DevOps personal access token with admin access to the organization"`
	APIKey string `long:"dd-api-key" env:"DD_API_KEY" description:"Datadog API key for the chosen site"`

	CommonOpts

	azc         azureClient
	ddc         datadogClient
	confirm     func(prompt string) bool
	newReporter func(prefix string) reporter
	out         io.Writer
}

// azureClient is a subset of the azure devops client used by the flows.
type azureClient interface {
	ListProjects(ctx context.Context) ([]store.Project, error)
	ListSubscriptions(ctx context.Context) ([]store.Subscription, error)
	CreateSubscription(ctx context.Context, project store.Project, eventType string) error
	DeleteSubscription(ctx context.Context, subscriptionID string) error
}

// datadogClient validates the credential and addresses the intake.
type datadogClient interface {
	Validate(ctx context.Context) error
	WebhookURL() string
}

// Execute runs the requested flow.
func (r *Run) Execute(_ []string) error {
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.Logger == nil {
		r.Logger = logx.Nop()
	}
	if r.confirm == nil {
		r.confirm = confirmAction
	}
	if r.newReporter == nil {
		r.newReporter = newSpinnerReporter
	}

	if err := r.applyConfig(); err != nil {
		return err
	}

	if err := r.validateOpts(); err != nil {
		return err
	}

	if r.ddc == nil {
		r.ddc = datadog.NewClient(datadog.ClientParams{
			Site:   r.Site,
			APIKey: r.APIKey,
			Logger: r.Logger,
		})
	}
	if r.azc == nil {
		r.azc = azdevops.NewClient(azdevops.ClientParams{
			Organization: r.Organization,
			Token:        r.Token,
			WebhookURL:   r.ddc.WebhookURL(),
			APIKey:       r.APIKey,
			Logger:       r.Logger,
		})
	}

	ctx := context.Background()

	switch {
	case r.List:
		return r.list(ctx)
	case r.Uninstall:
		return r.uninstall(ctx)
	default:
		return r.install(ctx)
	}
}

// applyConfig fills the flags, which were not provided explicitly,
// with the values from the config file, if any.
func (r *Run) applyConfig() error {
	if r.ConfLocation == "" {
		return nil
	}

	cfg, err := readConf(r.ConfLocation)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if r.Site == "" {
		r.Site = cfg.Site
	}
	if r.Organization == "" {
		r.Organization = cfg.Organization
	}
	if r.Project == "" {
		r.Project = cfg.Project
	}

	return nil
}

func (r *Run) validateOpts() error {
	if r.Site == "" {
		return errors.New("no Datadog site provided, use --dd-site")
	}
	if !datadog.ValidSite(r.Site) {
		return fmt.Errorf("unsupported Datadog site %q", r.Site)
	}
	if r.Organization == "" {
		return errors.New("no Azure DevOps organization provided, use --az-devops-org")
	}
	if r.Token == "" {
		return errors.New("AZURE_DEVOPS_TOKEN is not set in your environment")
	}
	// the API key is needed to install only
	if !r.Uninstall && !r.List && r.APIKey == "" {
		return errors.New("DD_API_KEY is not set in your environment")
	}
	return nil
}

func (r *Run) install(ctx context.Context) error {
	if err := r.ddc.Validate(ctx); err != nil {
		return fmt.Errorf("validate datadog API key: %w", err)
	}

	projects, err := r.azc.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}

	if r.Project != "" {
		if projects = filterByName(projects, r.Project); len(projects) == 0 {
			return errs.ErrProjectNotFound(r.Project)
		}
	}

	if len(projects) == 0 {
		fmt.Fprintf(r.out, "No projects found in %s.\n", r.Organization)
		return nil
	}

	existing, err := r.azc.ListSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("list existing subscriptions: %w", err)
	}

	missing := service.Missing(projects, existing)
	r.logConfigured(projects, missing)

	if len(missing) == 0 {
		if r.Project == "" {
			color.New(color.FgGreen).Fprintf(r.out,
				"All %d projects in %s already have Datadog service hooks correctly configured!\n",
				len(projects), r.Organization)
			return nil
		}
		color.New(color.FgGreen).Fprintf(r.out,
			"The project %s already has Datadog service hooks correctly configured!\n", r.Project)
		return nil
	}

	// batch setup over the whole organization requires a confirmation
	if r.Project == "" {
		affected := service.ProjectsMissing(missing)
		prompt := fmt.Sprintf("%d of %d projects in %s are missing at least one service hook.\n"+
			"Please confirm that you want to configure service hooks for these %d projects",
			affected, len(projects), r.Organization, affected)
		if !r.confirm(prompt) {
			return errs.ErrAborted
		}
	}

	rep := r.newReporter("Configuring service hooks")
	for i, pair := range missing {
		rep.Step(i+1, len(missing), pair.Label())
		if err := r.azc.CreateSubscription(ctx, pair.Project, pair.EventType); err != nil {
			rep.Done()
			return fmt.Errorf("configure service hook for project %q: %w", pair.Project.Name, err)
		}
	}
	rep.Done()

	if r.Project == "" {
		color.New(color.FgGreen).Fprintf(r.out,
			"Successfully configured %d service hooks among %d projects in %s!\n",
			len(missing), service.ProjectsMissing(missing), r.Organization)
		return nil
	}
	color.New(color.FgGreen).Fprintf(r.out,
		"Successfully configured %d service hooks in project %s!\n", len(missing), r.Project)

	return nil
}

func (r *Run) uninstall(ctx context.Context) error {
	if r.Project != "" {
		return errors.New("specifying a single project is not supported for the uninstallation command")
	}

	subs, err := r.azc.ListSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("list existing subscriptions: %w", err)
	}

	if len(subs) == 0 {
		fmt.Fprintln(r.out, "No Datadog service hooks found.")
		return nil
	}

	projectCount := service.DistinctProjects(subs)
	fmt.Fprintf(r.out, "Found %d Datadog service hooks among %d projects in %s.\n",
		len(subs), projectCount, r.Organization)

	prompt := fmt.Sprintf("Are you sure you want to uninstall these %d Datadog service hooks? "+
		"This will break the integration with Datadog.", len(subs))
	if !r.confirm(prompt) {
		return errs.ErrAborted
	}

	rep := r.newReporter("Uninstalling service hooks")
	for i, sub := range subs {
		rep.Step(i+1, len(subs), sub.PublisherInputs.ProjectID+" - "+sub.EventType)
		if err := r.azc.DeleteSubscription(ctx, sub.ID); err != nil {
			rep.Done()
			return fmt.Errorf("delete service hook %s: %w", sub.ID, err)
		}
	}
	rep.Done()

	color.New(color.FgGreen).Fprintf(r.out,
		"Successfully uninstalled %d Datadog service hooks among %d projects in %s!\n",
		len(subs), projectCount, r.Organization)

	return nil
}

func (r *Run) list(ctx context.Context) error {
	subs, err := r.azc.ListSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("list existing subscriptions: %w", err)
	}

	if len(subs) == 0 {
		fmt.Fprintln(r.out, "No Datadog service hooks found.")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"project id", "event type", "subscription id", "url"})
	for _, sub := range subs {
		tw.AppendRow(table.Row{sub.PublisherInputs.ProjectID, sub.EventType, sub.ID, sub.ConsumerInputs.URL})
	}
	tw.Render()

	return nil
}

// logConfigured logs the pairs that already have their hooks in place.
func (r *Run) logConfigured(projects []store.Project, missing []service.Pair) {
	skip := make(map[string]struct{}, len(missing))
	for _, pair := range missing {
		skip[pair.Project.ID+"/"+pair.EventType] = struct{}{}
	}

	for _, project := range projects {
		for _, eventType := range store.EventTypes {
			if _, ok := skip[project.ID+"/"+eventType]; ok {
				continue
			}
			r.Logger.Printf("[DEBUG] %s service hook is already configured for project %q",
				eventType, project.Name)
		}
	}
}

func filterByName(projects []store.Project, name string) []store.Project {
	var res []store.Project
	for _, project := range projects {
		if project.Name == name {
			res = append(res, project)
		}
	}
	return res
}

// confirmAction prompts the user for confirmation, accepts "y" or "yes".
func confirmAction(prompt string) bool {
	fmt.Printf("%s (yes/no): ", prompt)

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
