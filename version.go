package annet

// Version is the toolkit release version.
const Version = "0.1.0"
