package facebookimpl

import (
	"errors"

	fb "github.com/huandu/facebook/v2"
	"github.com/perhitsiksha/events-ingest/internal/facebook"
	"github.com/perhitsiksha/events-ingest/pkg/config"
	"github.com/perhitsiksha/events-ingest/pkg/logger"
	"go.uber.org/fx"
)

type FacebookImpl struct {
	session *fb.Session
	pageID  string
	logger  logger.Logger
}

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

func New(opts Opts) (*FacebookImpl, error) {
	cfg := opts.Config.Facebook
	if cfg.PageID == "" || cfg.AccessToken == "" {
		return nil, errors.New("FACEBOOK_PAGE_ID and FACEBOOK_ACCESS_TOKEN must be set")
	}

	session := &fb.Session{}
	session.SetAccessToken(cfg.AccessToken)
	session.Version = cfg.APIVersion

	return &FacebookImpl{
		session: session,
		pageID:  cfg.PageID,
		logger:  opts.Logger,
	}, nil
}

var _ facebook.Client = (*FacebookImpl)(nil)
