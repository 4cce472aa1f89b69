package main

import (
	"encoding/json"
	"io"
	"time"

	"github.com/spf13/cobra"

	"trendlens/internal/core/country"
	"trendlens/internal/core/trend"
	"trendlens/internal/platform/config"
	perr "trendlens/internal/platform/errors"
	"trendlens/internal/platform/logger"
	pstrings "trendlens/internal/platform/strings"
	ptime "trendlens/internal/platform/time"
	"trendlens/internal/services/sources/domain"
	"trendlens/internal/services/sources/repo"
)

// settings are the flag values, defaults come from TRENDLENS_SNAPSHOT_*
type settings struct {
	Search      string
	Brand       string
	Consumer    string
	Aliases     string
	Granularity string
	Country     string
	Since       string
	Freq        string
	Sources     []string
	TopN        int
	TopVolumeN  int
	Compact     bool
}

// Command builds the root command, flags default to cfg
func Command(cfg config.Conf) *cobra.Command {
	s := &settings{}
	cmd := &cobra.Command{
		Use:           "trendlens-snapshot",
		Short:         "Classify real estate themes from csv exports",
		Long:          `Load the search, brand and consumer csv exports, run the volume and growth classification and print the analysis as json.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, s)
		},
	}
	setupFlags(cmd, s, cfg)
	return cmd
}

func setupFlags(cmd *cobra.Command, s *settings, cfg config.Conf) {
	f := cmd.Flags()
	f.StringVar(&s.Search, "search", cfg.MayString("SEARCH_CSV", ""), "Search interest csv")
	f.StringVar(&s.Brand, "brand", cfg.MayString("BRAND_CSV", ""), "Brand posts csv")
	f.StringVar(&s.Consumer, "consumer", cfg.MayString("CONSUMER_CSV", ""), "Consumer posts csv")
	f.StringVar(&s.Aliases, "aliases", cfg.MayString("COUNTRY_ALIASES", ""), "Extra country aliases yaml")
	f.StringVarP(&s.Granularity, "granularity", "g", string(trend.ByTheme), "theme or sub_theme")
	f.StringVarP(&s.Country, "country", "c", "", "Only rows of this country")
	f.StringVar(&s.Since, "since", "", "Raise the 2021-01-01 floor to this YYYY-MM-DD date")
	f.StringVarP(&s.Freq, "freq", "f", "month", "Display frequency: month, quarter, half, year")
	f.StringSliceVar(&s.Sources, "sources", nil, "Restrict to sources: search, brand, consumer")
	f.IntVar(&s.TopN, "top-n", trend.DefaultTopN, "Entities kept per category")
	f.IntVar(&s.TopVolumeN, "top-volume-n", trend.DefaultTopVolumeN, "Entities kept by volume")
	f.BoolVar(&s.Compact, "compact", false, "Print single line json")
}

func run(cmd *cobra.Command, s *settings) error {
	ctx := cmd.Context()
	log := logger.Named("snapshot")

	q, err := s.query()
	if err != nil {
		return err
	}
	canon, err := s.canon()
	if err != nil {
		return err
	}

	start := time.Now()
	snap, err := load(cmd, repo.NewCSV(map[trend.Source]string{
		trend.SourceSearch:   s.Search,
		trend.SourceBrand:    s.Brand,
		trend.SourceConsumer: s.Consumer,
	}))
	if err != nil {
		return err
	}
	log.Info().
		Int("search", snap.Rows(trend.SourceSearch)).
		Int("brand", snap.Rows(trend.SourceBrand)).
		Int("consumer", snap.Rows(trend.SourceConsumer)).
		Dur("elapsed", time.Since(start)).
		Msg("sources loaded")

	a, err := trend.NewEngine(canon).Analyze(ctx, snap.Dataset(), q)
	if err != nil {
		return err
	}
	if a.Empty {
		log.Warn().Msg("no entity has two months of data in scope")
	}
	return write(cmd.OutOrStdout(), a, !s.Compact)
}

func (s *settings) query() (trend.Query, error) {
	g, err := trend.ParseGranularity(s.Granularity)
	if err != nil {
		return trend.Query{}, err
	}
	freq, err := trend.ParseFreq(s.Freq)
	if err != nil {
		return trend.Query{}, err
	}
	since, err := ptime.ParseDay(s.Since)
	if err != nil {
		return trend.Query{}, perr.WithField(err, "since")
	}
	floor := trend.DefaultFloor
	if since.After(floor) {
		floor = since
	}
	q := trend.Query{
		Granularity: g,
		Country:     s.Country,
		Floor:       floor,
		Freq:        freq,
		TopN:        s.TopN,
		TopVolumeN:  s.TopVolumeN,
	}
	for _, raw := range pstrings.Compact(s.Sources) {
		src, err := trend.ParseSource(raw)
		if err != nil {
			return trend.Query{}, err
		}
		q.Sources = append(q.Sources, src)
	}
	return q, nil
}

func (s *settings) canon() (func(string) string, error) {
	extra, err := country.LoadAliases(s.Aliases)
	if err != nil {
		return nil, err
	}
	return country.New(extra).Normalize, nil
}

func load(cmd *cobra.Command, l domain.Loader) (*domain.Snapshot, error) {
	ctx := cmd.Context()
	search, err := l.LoadSearch(ctx)
	if err != nil {
		return nil, err
	}
	brand, err := l.LoadPosts(ctx, trend.SourceBrand)
	if err != nil {
		return nil, err
	}
	consumer, err := l.LoadPosts(ctx, trend.SourceConsumer)
	if err != nil {
		return nil, err
	}
	return domain.NewSnapshot(l.Backend(), time.Now().UTC(), search, brand, consumer), nil
}

func write(w io.Writer, a trend.Analysis, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(a)
}
