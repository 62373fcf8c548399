package debug

func IsDebug() bool {
	return isDebugSet()
}

func IsDebugShowSetup() bool {
	return IsDebug() && isDebugShowSetupSet()
}
