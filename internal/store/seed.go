package store

// seedStmts populates the practice catalog with the continuous delivery
// practice graph. Maturity levels order practices from foundational (higher
// numbers adopted first) to the end goal at level 0.
var seedStmts = []string{
	`INSERT INTO practices (id, name, description, category, maturity_level) VALUES
		('continuous-delivery', 'Continuous delivery', 'Deliver changes to production safely, quickly, and sustainably.', 'goal', 0),
		('continuous-integration', 'Continuous integration', 'Integrate all work to trunk at least daily with automated verification.', 'core', 1),
		('deployment-pipeline', 'Deployment pipeline', 'A single automated path from commit to production.', 'core', 1),
		('trunk-based-development', 'Trunk-based development', 'All developers integrate small changes into a single trunk.', 'core', 2),
		('automated-testing', 'Automated testing', 'Tests run automatically on every change.', 'core', 2),
		('immutable-artifacts', 'Immutable artifacts', 'Build once, deploy the same artifact everywhere.', 'core', 2),
		('production-like-test-environment', 'Production-like test environment', 'Validate changes in an environment that mirrors production.', 'core', 2),
		('rollback-on-demand', 'Rollback on demand', 'Any deployment can be reverted without drama.', 'core', 2),
		('application-configuration', 'Application configuration', 'Configuration deploys with the artifact, versioned like code.', 'core', 2),
		('daily-integration', 'Daily integration', 'Every developer integrates work to trunk at least once a day.', 'practice', 3),
		('stop-the-line', 'Stop the line', 'A broken build is the top priority for the whole team.', 'practice', 3),
		('pipeline-as-the-only-path', 'Pipeline as the only path', 'No change reaches production except through the pipeline.', 'practice', 3),
		('build-automation', 'Build automation', 'The build runs scripted, with no manual steps.', 'foundation', 3),
		('infrastructure-as-code', 'Infrastructure as code', 'Environments are declared in versioned code.', 'foundation', 3),
		('version-control', 'Version control', 'Everything needed to build and deploy lives in version control.', 'foundation', 4),
		('small-batches', 'Small batches', 'Work is decomposed into changes that take less than a day.', 'foundation', 4)`,

	`INSERT INTO practice_dependencies (practice_id, depends_on_id, position) VALUES
		('continuous-delivery', 'continuous-integration', 0),
		('continuous-delivery', 'deployment-pipeline', 1),
		('continuous-delivery', 'immutable-artifacts', 2),
		('continuous-delivery', 'production-like-test-environment', 3),
		('continuous-delivery', 'rollback-on-demand', 4),
		('continuous-delivery', 'application-configuration', 5),
		('continuous-integration', 'trunk-based-development', 0),
		('continuous-integration', 'automated-testing', 1),
		('continuous-integration', 'daily-integration', 2),
		('continuous-integration', 'stop-the-line', 3),
		('continuous-integration', 'build-automation', 4),
		('deployment-pipeline', 'build-automation', 0),
		('deployment-pipeline', 'pipeline-as-the-only-path', 1),
		('trunk-based-development', 'version-control', 0),
		('trunk-based-development', 'small-batches', 1),
		('automated-testing', 'version-control', 0),
		('automated-testing', 'build-automation', 1),
		('immutable-artifacts', 'build-automation', 0),
		('production-like-test-environment', 'infrastructure-as-code', 0),
		('rollback-on-demand', 'immutable-artifacts', 0),
		('application-configuration', 'version-control', 0),
		('daily-integration', 'small-batches', 0),
		('build-automation', 'version-control', 0),
		('infrastructure-as-code', 'version-control', 0)`,
}
