package enums

// NotificationKind labels outbound chat messages for logging and metrics.
type NotificationKind string

const (
	NotificationBuyerReceipt      NotificationKind = "buyer_receipt"
	NotificationAdminOrder        NotificationKind = "admin_order"
	NotificationPartnerCommission NotificationKind = "partner_commission"
	NotificationOrderStatus       NotificationKind = "order_status"
	NotificationBroadcast         NotificationKind = "broadcast"
)
