package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fulldump/box"

	"github.com/fulldump/handlerdb/registry"
)

func findForSuite(ctx context.Context) ([]registry.Summary, error) {

	suiteId := box.GetUrlParameter(ctx, "suiteId")
	suite, err := strconv.ParseInt(suiteId, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad suite id '%s'", registry.ErrInvalidArgument, suiteId)
	}

	return GetServicer(ctx).FindForSuite(ctx, int32(suite))
}
