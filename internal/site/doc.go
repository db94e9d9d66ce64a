// Package site loads the portfolio content and renders the page.
//
// Content lives in a YAML file:
//
//	title: Jane Doe
//	hero:
//	  title: I build fast websites
//	  ctaLabel: Get started
//	  ctaHref: "#get-started"
//	sections:
//	  - key: about
//	    title: About
//	  - key: projects
//	    kind: projects
//	    title: Work
//
// Section keys are the anchor ids the navigation and the scroll spy use.
// Every entrance group (the hero, each section header, the project grid and
// the pricing cards) gets sequential reveal delays from package stagger,
// rendered as the --reveal-delay custom property.
package site
