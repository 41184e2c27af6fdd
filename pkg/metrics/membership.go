package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// InvitationTotal 邀请操作计数，action: invite/accept/reject/cancel/expire
	InvitationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suitx_invitation_total",
			Help: "Total number of invitation operations",
		},
		[]string{"action", "result"},
	)

	// NotificationCreatedTotal 已创建的站内通知数
	NotificationCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suitx_notification_created_total",
			Help: "Total number of notifications created",
		},
		[]string{"type"},
	)

	// EmailDispatchTotal 邮件投递结果
	EmailDispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suitx_email_dispatch_total",
			Help: "Total number of email dispatch attempts",
		},
		[]string{"kind", "result"},
	)

	// MembershipReconciledTotal 对账时修复的成员索引条数
	MembershipReconciledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "suitx_membership_reconciled_total",
			Help: "Total number of user membership index entries repaired",
		},
	)

	membershipMetricsOnce sync.Once
)

func RegisterMembershipMetrics(registry *prometheus.Registry) {
	membershipMetricsOnce.Do(func() {
		registry.MustRegister(
			InvitationTotal,
			NotificationCreatedTotal,
			EmailDispatchTotal,
			MembershipReconciledTotal,
		)
	})
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

func RecordInvitation(action string, err error) {
	InvitationTotal.WithLabelValues(action, result(err)).Inc()
}

func RecordNotificationCreated(notificationType string) {
	NotificationCreatedTotal.WithLabelValues(notificationType).Inc()
}

func RecordEmailDispatch(kind string, err error) {
	EmailDispatchTotal.WithLabelValues(kind, result(err)).Inc()
}
