// pkg/amzclient/profiles.go
package amzclient

import (
	"fmt"
	"net/http"

	"BidRadar/pkg/model"
)

// ListProfiles 获取所有广告账户档案
func (c *Client) ListProfiles() ([]model.Profile, error) {
	var profiles []model.Profile
	if err := c.do(http.MethodGet, "/v2/profiles", "", nil, nil, &profiles); err != nil {
		return nil, fmt.Errorf("获取账户档案失败: %w", err)
	}
	return profiles, nil
}
