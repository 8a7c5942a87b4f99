package mixcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jaki95/mixcloud/internal/domain"
)

// ListOptions controls a cloudcast listing. Zero values are not sent.
type ListOptions struct {
	Limit  int
	Offset int

	// Expand fetches every listed cloudcast in full, one request each.
	Expand bool
}

// Cloudcast fetches one of username's cloudcasts by key.
func (c *Client) Cloudcast(ctx context.Context, username, key string) (*domain.Cloudcast, error) {
	u, err := c.endpoint(username, key)
	if err != nil {
		return nil, err
	}

	var payload cloudcastJSON
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, err
	}
	return payload.toDomain("cloudcast", true)
}

// Cloudcasts lists username's cloudcasts. Listing entries carry no tracklist
// or description unless opts.Expand is set; see Expand.
func (c *Client) Cloudcasts(ctx context.Context, username string, opts *ListOptions) ([]*domain.Cloudcast, error) {
	if opts == nil {
		opts = &ListOptions{}
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, fmt.Errorf("invalid list options: limit %d, offset %d", opts.Limit, opts.Offset)
	}

	u, err := c.endpoint(username, "cloudcasts")
	if err != nil {
		return nil, err
	}
	query := u.Query()
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}
	u.RawQuery = query.Encode()

	var payload cloudcastListJSON
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil {
		return nil, missingField("cloudcasts.data")
	}

	cloudcasts := make([]*domain.Cloudcast, 0, len(*payload.Data))
	for i := range *payload.Data {
		cc, err := (*payload.Data)[i].toDomain(fmt.Sprintf("cloudcasts.data[%d]", i), false)
		if err != nil {
			return nil, err
		}
		if opts.Expand {
			if cc, err = c.Expand(ctx, cc); err != nil {
				return nil, err
			}
		}
		cloudcasts = append(cloudcasts, cc)
	}
	return cloudcasts, nil
}

// Expand returns cc with its tracklist and description loaded. A complete
// cloudcast is returned as is.
func (c *Client) Expand(ctx context.Context, cc *domain.Cloudcast) (*domain.Cloudcast, error) {
	if cc == nil {
		return nil, errNilCloudcast
	}
	if cc.Complete() {
		return cc, nil
	}
	return c.Cloudcast(ctx, cc.User().Key, cc.Key())
}
