package blocks

// AddNotification は mention の種類に応じて Slack のメンションを先頭に付ける
func AddNotification(message, mention string) string {
	switch mention {
	case "here":
		return "<!here> " + message
	case "channel":
		return "<!channel> " + message
	default:
		return message
	}
}
