// pkg/engine/campaign.go
package engine

import (
	"fmt"
	"log"

	"BidRadar/pkg/model"
)

// CampaignPerformance 单个活动在回溯窗口内的绩效汇总
type CampaignPerformance struct {
	CampaignID string
	Name       string
	State      model.CampaignState
	Kpi        model.KpiSnapshot
}

// CampaignStateUpdater 活动状态推送能力
type CampaignStateUpdater interface {
	UpdateCampaignState(profileID, campaignID string, state model.CampaignState) error
}

// DecideCampaignAction 阈值驱动的活动启停决策
// 两个分支互斥，先查停用；新旧状态一致时不产生动作（幂等）
func DecideCampaignAction(rules model.RulesConfig, perf CampaignPerformance) *model.CampaignAction {
	// 数据量门槛
	if perf.Kpi.Clicks < rules.MinClicks {
		return nil
	}

	if rules.AutoDeactivateCampaigns && perf.Kpi.Acos > rules.DeactivateAcosThreshold {
		if perf.State == model.CampaignStateEnabled {
			return &model.CampaignAction{
				CampaignID: perf.CampaignID,
				PrevState:  perf.State,
				NewState:   model.CampaignStatePaused,
				Reason:     fmt.Sprintf("ACOS过高: %s", model.FormatAcos(perf.Kpi.Acos)),
				Acos:       perf.Kpi.Acos,
			}
		}
	} else if rules.AutoActivateCampaigns && perf.Kpi.Acos <= rules.ActivateAcosThreshold {
		if perf.State == model.CampaignStatePaused {
			return &model.CampaignAction{
				CampaignID: perf.CampaignID,
				PrevState:  perf.State,
				NewState:   model.CampaignStateEnabled,
				Reason:     fmt.Sprintf("ACOS良好: %s", model.FormatAcos(perf.Kpi.Acos)),
				Acos:       perf.Kpi.Acos,
			}
		}
	}

	return nil
}

// ManageCampaigns 对全部活动执行启停决策并推送
// 单个活动推送失败只记录，不阻塞其余活动的处理
func ManageCampaigns(updater CampaignStateUpdater, profileID string, performance []CampaignPerformance,
	rules model.RulesConfig, dryRun bool) ([]model.CampaignAction, []string) {

	var actions []model.CampaignAction
	var issues []string

	if !rules.AutoActivateCampaigns && !rules.AutoDeactivateCampaigns {
		return actions, issues
	}

	for _, perf := range performance {
		action := DecideCampaignAction(rules, perf)
		if action == nil {
			continue
		}

		if dryRun {
			actions = append(actions, *action)
			continue
		}

		if err := updater.UpdateCampaignState(profileID, action.CampaignID, action.NewState); err != nil {
			entityErr := &EntityError{EntityID: action.CampaignID, Err: err}
			log.Printf("推送活动状态失败: %v", entityErr)
			issues = append(issues, entityErr.Error())
			actions = append(actions, *action)
			continue
		}

		action.Applied = true
		actions = append(actions, *action)
		log.Printf("活动 %s: %s → %s (%s)", action.CampaignID, action.PrevState, action.NewState, action.Reason)
	}

	return actions, issues
}
