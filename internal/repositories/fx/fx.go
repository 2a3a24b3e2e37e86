package fx

import (
	"github.com/icewatch/x-monitor/internal/repositories/account"
	"github.com/icewatch/x-monitor/internal/repositories/like"
	"github.com/icewatch/x-monitor/internal/repositories/post"
	"go.uber.org/fx"
)

var Module = fx.Options(
	account.Module,
	post.Module,
	like.Module,
)
